package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Language
	}{
		{"empty", "", EN},
		{"latin", "hello there", EN},
		{"digits", "12345", EN},
		{"arabic word", "مرحبا", AR},
		{"mixed latin and arabic", "hello مرحبا", AR},
		{"single arabic char", "x ع x", AR},
		{"arabic-indic digit", "٣", AR},
		{"punctuation only", "?!.", EN},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Detect(tc.text))
		})
	}
}

func TestOther(t *testing.T) {
	assert.Equal(t, AR, EN.Other())
	assert.Equal(t, EN, AR.Other())
}
