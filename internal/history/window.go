package history

// MaxVisiblePages is the most numeric page links shown at once.
const MaxVisiblePages = 5

// TokenKind tells a page link from an ellipsis gap.
type TokenKind string

const (
	TokenPage     TokenKind = "page"
	TokenEllipsis TokenKind = "ellipsis"
)

// Token is one element of the pagination bar.
type Token struct {
	Kind    TokenKind `json:"kind"`
	Page    int       `json:"page,omitempty"`
	Current bool      `json:"current,omitempty"`
}

// CurrentPage is the 1-based page that starts at offset.
func CurrentPage(offset, limit int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}

// TotalPages is the number of pages needed for total items.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Window lays out the pagination bar for page c of n.  Short histories show
// every page; longer ones keep the first and last page and the neighbourhood
// of c, with ellipses for the gaps.
func Window(c, n int) []Token {
	var pages []int
	gapAfter := map[int]bool{}

	switch {
	case n <= MaxVisiblePages:
		for i := 1; i <= n; i++ {
			pages = append(pages, i)
		}
	case c <= 3:
		pages = []int{1, 2, 3, 4, n}
		gapAfter[4] = true
	case c >= n-2:
		pages = []int{1, n - 3, n - 2, n - 1, n}
		gapAfter[1] = true
	default:
		pages = []int{1, c - 1, c, c + 1, n}
		gapAfter[1] = true
		gapAfter[c+1] = true
	}

	tokens := make([]Token, 0, len(pages)+2)
	for _, p := range pages {
		tokens = append(tokens, Token{Kind: TokenPage, Page: p, Current: p == c})
		if gapAfter[p] {
			tokens = append(tokens, Token{Kind: TokenEllipsis})
		}
	}
	return tokens
}
