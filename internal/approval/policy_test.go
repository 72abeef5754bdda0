package approval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiresApproval_DefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	assert.False(t, p.RequiresApproval(nil))
	assert.False(t, p.RequiresApproval([]Field{}))
	assert.False(t, p.RequiresApproval([]Field{FieldPrice}))
	assert.False(t, p.RequiresApproval([]Field{FieldLive}))
	assert.False(t, p.RequiresApproval([]Field{FieldPrice, FieldLive}))
	assert.True(t, p.RequiresApproval([]Field{FieldTitle}))
	assert.True(t, p.RequiresApproval([]Field{FieldTitle, FieldPrice}))

	for _, f := range DefaultGatedFields {
		assert.True(t, p.RequiresApproval([]Field{f}), f)
	}
}

func TestRequiresApproval_InjectedSet(t *testing.T) {
	p := NewPolicy(FieldPrice)

	assert.True(t, p.RequiresApproval([]Field{FieldPrice}))
	assert.False(t, p.RequiresApproval([]Field{FieldTitle}))
	assert.False(t, NewPolicy().RequiresApproval([]Field{FieldTitle}))
}

func TestFieldsPresent(t *testing.T) {
	title := "New"
	cover := "covers/a.jpg"

	f := Fields{Title: &title, Cover: &cover}
	assert.Equal(t, []Field{FieldTitle, FieldCover}, f.Present())
	assert.False(t, f.IsEmpty())
	assert.True(t, Fields{}.IsEmpty())
}

func TestPartition_DefaultPolicy(t *testing.T) {
	title := "New"
	price := int64(2000)
	live := true

	direct, gated := DefaultPolicy().Partition(Fields{Title: &title, Price: &price, Live: &live})

	assert.Equal(t, []Field{FieldPrice, FieldLive}, direct.Present())
	assert.Equal(t, []Field{FieldTitle}, gated.Present())
	assert.Equal(t, "New", *gated.Title)
	assert.Equal(t, int64(2000), *direct.Price)
}

func TestPartition_InjectedSetMovesFields(t *testing.T) {
	title := "New"
	price := int64(2000)

	direct, gated := NewPolicy(FieldPrice).Partition(Fields{Title: &title, Price: &price})

	assert.Equal(t, []Field{FieldTitle}, direct.Present())
	assert.Equal(t, []Field{FieldPrice}, gated.Present())
}

func TestParseFields(t *testing.T) {
	fields, err := ParseFields([]string{"title", " price "})
	require.NoError(t, err)
	assert.Equal(t, []Field{FieldTitle, FieldPrice}, fields)

	_, err = ParseFields([]string{"categories"})
	assert.ErrorContains(t, err, "categories")
}
