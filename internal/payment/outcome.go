package payment

import (
	"github.com/t1112000/seatly-fe/internal/apiclient"
	"github.com/t1112000/seatly-fe/internal/model"
)

// View is which result screen the user lands on.
type View string

const (
	ViewSuccess View = "success"
	ViewFailure View = "failure"
	ViewInvalid View = "invalid"
)

const (
	titleSuccess = "Payment Successful!"
	titleFailure = "Payment Failed"
	titleInvalid = "Invalid Request"

	msgMissingIdentifier = "Booking ID is missing from URL"
	msgFetchFallback     = "Unable to fetch booking details"
	msgDeclined          = "Transaction was declined"
	msgExpired           = "Payment expired"

	txnRefLength = 12
)

// Details is the booking summary shown under the result.  Fields the backend
// left out stay empty and are omitted from the response.
type Details struct {
	SeatNumbers    string       `json:"seat_numbers"`
	Amount         model.Amount `json:"amount"`
	Status         string       `json:"status"`
	StatusLabel    string       `json:"status_label"`
	Provider       string       `json:"payment_provider,omitempty"`
	TransactionRef string       `json:"transaction_ref,omitempty"`
}

// Outcome is the classified result of a payment return.
//
// Message is the text shown to the user.  FetchError and Status are kept
// apart from it so a failed lookup is never mistaken for a declined payment.
type Outcome struct {
	BookingID  string              `json:"booking_id"`
	View       View                `json:"view"`
	Title      string              `json:"title"`
	Message    string              `json:"message,omitempty"`
	FetchError string              `json:"fetch_error,omitempty"`
	Status     model.BookingStatus `json:"status,omitempty"`
	Details    *Details            `json:"details,omitempty"`
}

// Classify turns a booking lookup into an Outcome.  Only a fetched booking in
// PAID is a success.
func Classify(bookingID string, b *model.Booking, fetchErr error) Outcome {
	if bookingID == "" {
		return Outcome{View: ViewInvalid, Title: titleInvalid, Message: msgMissingIdentifier}
	}

	out := Outcome{BookingID: bookingID}
	if fetchErr != nil {
		out.FetchError = apiclient.Message(fetchErr, msgFetchFallback)
	}
	if b != nil {
		out.Status = b.Status
		out.Details = detailsOf(b)
	}

	if fetchErr == nil && b != nil && b.Status == model.BookingStatusPaid {
		out.View = ViewSuccess
		out.Title = titleSuccess
		return out
	}

	out.View = ViewFailure
	out.Title = titleFailure
	switch {
	case out.FetchError != "":
		out.Message = out.FetchError
	case b != nil && b.Status == model.BookingStatusFailed:
		out.Message = msgDeclined
	case b != nil && b.Status == model.BookingStatusExpired:
		out.Message = msgExpired
	default:
		out.Message = msgDeclined
	}
	return out
}

func detailsOf(b *model.Booking) *Details {
	d := &Details{
		SeatNumbers: b.SeatNumbers(),
		Amount:      b.Amount,
		Status:      b.Status.DisplayText(),
		StatusLabel: b.Status.Label(),
	}
	if b.PaymentProvider != nil {
		d.Provider = *b.PaymentProvider
	}
	if b.ProviderTransactionID != nil && *b.ProviderTransactionID != "" {
		d.TransactionRef = truncateRef(*b.ProviderTransactionID)
	}
	return d
}

func truncateRef(ref string) string {
	r := []rune(ref)
	if len(r) > txnRefLength {
		r = r[:txnRefLength]
	}
	return string(r) + "..."
}
