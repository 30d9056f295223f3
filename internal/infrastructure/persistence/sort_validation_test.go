package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("ascending; DROP TABLE transactions"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "date", ValidateSortField("date", TransactionSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", TransactionSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("notes; --", TransactionSortFields, "created_at"))
	assert.Equal(t, "username", ValidateSortField("username", UserSortFields, "created_at"))
}
