package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirection_Pattern(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		want      string
	}{
		{"outgoing", Outgoing, "(a)-[r:`KNOWS`]->(b)"},
		{"incoming", Incoming, "(a)<-[r:`KNOWS`]-(b)"},
		{"either", Either, "(a)-[r:`KNOWS`]-(b)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.direction.pattern("KNOWS"))
		})
	}
}

func TestEscapeIdentifier(t *testing.T) {
	assert.Equal(t, "KNOWS", escapeIdentifier("KNOWS"))
	assert.Equal(t, "WEIRD``TYPE", escapeIdentifier("WEIRD`TYPE"))
}

func TestDeleteStaleQuery(t *testing.T) {
	withKeys := deleteStaleQuery("KNOWS", Outgoing, "email")
	assert.Contains(t, withKeys, "NOT id(b) IN {keep_ids}")
	assert.Contains(t, withKeys, "NOT b.`email` IN {keep_keys}")
	assert.Contains(t, withKeys, "DELETE r")

	withoutKeys := deleteStaleQuery("KNOWS", Outgoing, "")
	assert.NotContains(t, withoutKeys, "keep_keys")
}
