package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2023, 5, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", TimeAgo(now.Add(-30*time.Second), now))
	assert.Equal(t, "1 minute ago", TimeAgo(now.Add(-61*time.Second), now))
	assert.Equal(t, "5 minutes ago", TimeAgo(now.Add(-5*time.Minute), now))
	assert.Equal(t, "1 hour ago", TimeAgo(now.Add(-90*time.Minute), now))
	assert.Equal(t, "2 hours ago", TimeAgo(now.Add(-2*time.Hour), now))
	assert.Equal(t, "1 day ago", TimeAgo(now.Add(-25*time.Hour), now))
	assert.Equal(t, "2 days ago", TimeAgo(now.Add(-48*time.Hour), now))
	assert.Equal(t, "01 May 2023", TimeAgo(time.Date(2023, 5, 1, 9, 0, 0, 0, time.UTC), now))
}

func TestGenerateInvoiceID(t *testing.T) {
	now := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	id, err := GenerateInvoiceID(now)
	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^INV-20230501-\d{4}$`), id)

	other, err := GenerateInvoiceID(now)
	assert.NoError(t, err)
	assert.NotEmpty(t, other)
}
