package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Empty(t, w.String())

	w.add("p.status = ?", "open")
	w.add("(p.title ILIKE ? OR p.description ILIKE ?)", "%go%")
	assert.Equal(t, " WHERE p.status = $1 AND (p.title ILIKE $2 OR p.description ILIKE $2)", w.String())

	where := w.String()
	countArgs := append([]any(nil), w.args...)
	tail, args := w.page(20, 40)

	assert.Equal(t, " WHERE p.status = $1 AND (p.title ILIKE $2 OR p.description ILIKE $2)", where)
	assert.Equal(t, " LIMIT $3 OFFSET $4", tail)
	assert.Equal(t, []any{"open", "%go%", 20, 40}, args)
	assert.Equal(t, []any{"open", "%go%"}, countArgs)
}
