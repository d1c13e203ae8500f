package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{"help", []string{"-help"}, 0},
		{"valid definition", []string{"-quiet", "(a: int): void"}, 0},
		{"valid json", []string{"-json", "-quiet", "@x (): any"}, 0},
		{"invalid definition", []string{"-quiet", "(): nope"}, 1},
		{"missing catalog", []string{"-quiet", "-catalog", "does-not-exist.yaml"}, 1},
		{"no arguments", []string{}, 2},
		{"unknown flag", []string{"-nope"}, 2},
		{"invalid adapter", []string{"-quiet", "-serve", "-adapter", "chi"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, run(tt.args))
		})
	}
}
