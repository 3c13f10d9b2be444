package seating

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t1112000/seatly-fe/internal/apiclient/apiclienttest"
	"github.com/t1112000/seatly-fe/internal/model"
	"github.com/t1112000/seatly-fe/internal/reqseq"
)

const seatList = `{"data":[
	{"id":"b2","seat_number":"B2","type":"VIP","row_label":"B","col_number":2,"price":90000,"status":"AVAILABLE","version":1},
	{"id":"a3","seat_number":"A3","type":"STANDARD","row_label":"A","col_number":3,"price":"50000","status":"BOOKED","version":4},
	{"id":"a1","seat_number":"A1","type":"STANDARD","row_label":"A","col_number":1,"price":50000,"status":"AVAILABLE","version":1},
	{"id":"c1","seat_number":"C1","type":"COUPLE","row_label":"C","col_number":1,"price":150000,"status":"LOCKED","version":2},
	{"id":"b5","seat_number":"B5","type":"VIP","row_label":"B","col_number":5,"price":90000,"status":"AVAILABLE","version":1}
]}`

func TestInventory_Load(t *testing.T) {
	tr := apiclienttest.New().JSON(http.MethodGet, "/v1/seats", seatList)
	inv := NewInventory(tr)

	seats, err := inv.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, seats, 5)

	rows := inv.Rows()
	require.Len(t, rows, 3)

	assert.Equal(t, "A", rows[0].Label)
	assert.Equal(t, model.SeatTypeStandard, rows[0].Type)
	assert.Equal(t, 3, rows[0].GridWidth)
	assert.Equal(t, "a1", rows[0].Seats[0].ID)
	assert.Equal(t, "a3", rows[0].Seats[1].ID)

	assert.Equal(t, "B", rows[1].Label)
	assert.Equal(t, 5, rows[1].GridWidth)

	assert.Equal(t, "C", rows[2].Label)
	assert.Equal(t, model.SeatTypeCouple, rows[2].Type)
	assert.Equal(t, CoupleGridWidth, rows[2].GridWidth)

	s, ok := inv.Seat("a3")
	require.True(t, ok)
	assert.Equal(t, model.SeatStatusBooked, s.Status)
	assert.Equal(t, 4, s.Version)
}

func TestInventory_InvalidPayloadEmpties(t *testing.T) {
	tr := apiclienttest.New().JSON(http.MethodGet, "/v1/seats", seatList)
	inv := NewInventory(tr)
	_, err := inv.Load(context.Background())
	require.NoError(t, err)

	for name, body := range map[string]string{
		"object instead of list": `{"data":{"id":"a1"}}`,
		"missing data":           `{"items":[]}`,
		"unknown seat status":    `{"data":[{"id":"x","type":"VIP","status":"HELD"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			tr.JSON(http.MethodGet, "/v1/seats", body)
			_, err := inv.Load(context.Background())
			assert.ErrorIs(t, err, ErrInvalidPayload)
			assert.Empty(t, inv.Seats())
			assert.Empty(t, inv.Rows())
			_, ok := inv.Seat("a1")
			assert.False(t, ok)
		})
	}
}

func TestInventory_NetworkErrorKeepsSnapshot(t *testing.T) {
	tr := apiclienttest.New().JSON(http.MethodGet, "/v1/seats", seatList)
	inv := NewInventory(tr)
	_, err := inv.Load(context.Background())
	require.NoError(t, err)

	boom := errors.New("connection refused")
	tr.Fail(http.MethodGet, "/v1/seats", boom)
	_, err = inv.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, inv.Seats(), 5)
}

func TestInventory_StaleLoadDiscarded(t *testing.T) {
	release := make(chan struct{})
	var n atomic.Int32
	tr := apiclienttest.New()
	tr.Handle(http.MethodGet, "/v1/seats", func(ctx context.Context, _ any) (json.RawMessage, error) {
		if n.Add(1) == 1 {
			<-release
			return json.RawMessage(`{"data":[]}`), nil
		}
		return json.RawMessage(seatList), nil
	})
	inv := NewInventory(tr)

	done := make(chan error, 1)
	go func() {
		_, err := inv.Load(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, time.Millisecond)

	_, err := inv.Load(context.Background())
	require.NoError(t, err)

	close(release)
	assert.ErrorIs(t, <-done, reqseq.ErrStale)
	assert.Len(t, inv.Seats(), 5)
}

func TestBuildRows_Empty(t *testing.T) {
	assert.Empty(t, BuildRows(nil))
}
