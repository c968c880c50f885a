package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeerKey(t *testing.T) {
	tests := []struct {
		name  string
		peers []string
		want  string
	}{
		{"empty", nil, ""},
		{"single", []string{"MSFT"}, "MSFT"},
		{"sorted", []string{"MSFT", "GOOGL"}, "GOOGL,MSFT"},
		{"case and whitespace normalized", []string{" msft ", "googl"}, "GOOGL,MSFT"},
		{"blank entries dropped", []string{"MSFT", "", "  "}, "MSFT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PeerKey(tt.peers))
		})
	}
}

func TestPeerKey_OrderIndependent(t *testing.T) {
	a := PeerKey([]string{"AMD", "NVDA", "INTC"})
	b := PeerKey([]string{"nvda", "intc", "amd"})
	assert.Equal(t, a, b)
}
