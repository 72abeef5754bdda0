package main

import (
	"reflect"
	"strings"
	"testing"

	"filemarket/internal/indexing"

	"github.com/stretchr/testify/assert"
	"github.com/typesense/typesense-go/typesense/api"
)

func TestFilesSchemaCoversDocument(t *testing.T) {
	declared := map[string]bool{}
	for _, f := range filesSchema().Fields {
		declared[f.Name] = true
	}

	doc := reflect.TypeOf(indexing.Document{})
	for i := 0; i < doc.NumField(); i++ {
		name, _, _ := strings.Cut(doc.Field(i).Tag.Get("json"), ",")
		if name == "id" {
			continue
		}
		assert.True(t, declared[name], "document field %q has no schema entry", name)
	}
}

func TestMissingFields(t *testing.T) {
	want := []api.Field{{Name: "title"}, {Name: "price"}}
	have := []api.Field{{Name: "title"}}

	assert.Equal(t, []api.Field{{Name: "price"}}, missingFields(want, have))
	assert.Empty(t, missingFields(have, want))
}
