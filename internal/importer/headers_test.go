package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveHeader(t *testing.T) {
	headers := []string{"Confirmation code", "Guest name", "Start date", "Earnings"}

	t.Run("first alias present wins", func(t *testing.T) {
		idx := resolveHeader(headers, []string{"Guest name", "Name"})
		assert.Equal(t, 1, idx)
	})

	t.Run("falls through to later alias", func(t *testing.T) {
		idx := resolveHeader(headers, []string{"Amount", "Earnings"})
		assert.Equal(t, 3, idx)
	})

	t.Run("alias order beats header order", func(t *testing.T) {
		// "Earnings" is listed first, so it wins even though
		// "Confirmation code" appears earlier in the file
		idx := resolveHeader(headers, []string{"Earnings", "Confirmation code"})
		assert.Equal(t, 3, idx)
	})

	t.Run("case sensitive", func(t *testing.T) {
		idx := resolveHeader(headers, []string{"guest name"})
		assert.Equal(t, -1, idx)
	})

	t.Run("no match", func(t *testing.T) {
		idx := resolveHeader(headers, []string{"Phone"})
		assert.Equal(t, -1, idx)
	})
}
