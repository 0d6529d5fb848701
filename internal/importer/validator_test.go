package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oceanstay/booking-service/internal/mapping"
)

func validRow() *Row {
	guest := "Nguyễn Văn A"
	start := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC)
	nights := 3
	amount := int64(1_500_000)
	return &Row{
		GuestName:      &guest,
		StartDate:      &start,
		EndDate:        &end,
		NumNights:      &nights,
		TotalPayoutVND: &amount,
		Status:         "confirmed",
	}
}

func TestValidateHappyPath(t *testing.T) {
	ok, msg := Validate(validRow(), mapping.Default().Rules())
	assert.True(t, ok)
	assert.Empty(t, msg)
}

func TestValidateRequiredFields(t *testing.T) {
	rules := mapping.Default().Rules()

	t.Run("missing guest name", func(t *testing.T) {
		row := validRow()
		row.GuestName = nil
		ok, msg := Validate(row, rules)
		assert.False(t, ok)
		assert.Equal(t, "Missing required field: guest_name", msg)
	})

	t.Run("blank guest name", func(t *testing.T) {
		row := validRow()
		blank := ""
		row.GuestName = &blank
		ok, msg := Validate(row, rules)
		assert.False(t, ok)
		assert.Equal(t, "Missing required field: guest_name", msg)
	})

	t.Run("missing start date", func(t *testing.T) {
		row := validRow()
		row.StartDate = nil
		row.EndDate = nil
		ok, msg := Validate(row, rules)
		assert.False(t, ok)
		assert.Equal(t, "Missing required field: start_date", msg)
	})

	t.Run("missing amount", func(t *testing.T) {
		row := validRow()
		row.TotalPayoutVND = nil
		ok, msg := Validate(row, rules)
		assert.False(t, ok)
		assert.Equal(t, "Missing required field: total_payout_vnd", msg)
	})
}

func TestValidateAmountBounds(t *testing.T) {
	rules := mapping.Default().Rules()

	tests := []struct {
		amount int64
		ok     bool
	}{
		{9_999, false},
		{10_000, true},
		{10_000_000, true},
		{10_000_001, false},
	}

	for _, tt := range tests {
		row := validRow()
		row.TotalPayoutVND = &tt.amount
		ok, msg := Validate(row, rules)
		assert.Equal(t, tt.ok, ok, "amount %d", tt.amount)
		if !tt.ok {
			assert.Contains(t, msg, "is outside reasonable range (10k-10M VND)")
		}
	}
}

func TestValidateAmountBoundMessage(t *testing.T) {
	row := validRow()
	amount := int64(5_000)
	row.TotalPayoutVND = &amount
	ok, msg := Validate(row, mapping.Default().Rules())
	assert.False(t, ok)
	assert.Equal(t, "Amount 5000 is outside reasonable range (10k-10M VND)", msg)
}

func TestValidateNightsBounds(t *testing.T) {
	rules := mapping.Default().Rules()

	tests := []struct {
		nights int
		ok     bool
	}{
		{1, true},
		{365, true},
		{366, false},
		{0, false},
	}

	for _, tt := range tests {
		row := validRow()
		row.NumNights = &tt.nights
		// Keep dates consistent with the nights under test
		end := row.StartDate.AddDate(0, 0, tt.nights+1)
		row.EndDate = &end
		ok, msg := Validate(row, rules)
		assert.Equal(t, tt.ok, ok, "nights %d", tt.nights)
		if !tt.ok {
			assert.Contains(t, msg, "must be between 1-365")
		}
	}
}

func TestValidateNightsMessage(t *testing.T) {
	row := validRow()
	nights := 366
	row.NumNights = &nights
	end := row.StartDate.AddDate(0, 0, 367)
	row.EndDate = &end
	ok, msg := Validate(row, mapping.Default().Rules())
	assert.False(t, ok)
	assert.Equal(t, "Number of nights 366 must be between 1-365", msg)
}

func TestValidateDateOrdering(t *testing.T) {
	rules := mapping.Default().Rules()

	t.Run("end before start", func(t *testing.T) {
		row := validRow()
		end := row.StartDate.AddDate(0, 0, -1)
		row.EndDate = &end
		ok, msg := Validate(row, rules)
		assert.False(t, ok)
		assert.Equal(t, "End date must be after start date", msg)
	})

	t.Run("end equals start", func(t *testing.T) {
		row := validRow()
		row.EndDate = row.StartDate
		ok, msg := Validate(row, rules)
		assert.False(t, ok)
		assert.Equal(t, "End date must be after start date", msg)
	})

	t.Run("missing end date is fine", func(t *testing.T) {
		row := validRow()
		row.EndDate = nil
		ok, _ := Validate(row, rules)
		assert.True(t, ok)
	})
}
