package models_test

import (
	"strings"
	"testing"

	"github.com/jmcelroy/docent/models"
)

func TestCheckOrderContiguity(t *testing.T) {
	tests := []struct {
		name   string
		orders []int
		want   []string
	}{
		{"contiguous", []int{2, 0, 1}, nil},
		{"empty", nil, nil},
		{"duplicate", []int{0, 1, 1}, []string{"duplicate order 1", "0..2"}},
		{"gap", []int{0, 1, 3}, []string{"contiguous sequence 0..2"}},
		{"offset", []int{1, 2, 3}, []string{"contiguous sequence 0..2"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			templates := make([]models.Template, len(tc.orders))
			for i, o := range tc.orders {
				templates[i] = models.Template{Order: o}
			}
			err := models.CheckOrderContiguity(templates)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("CheckOrderContiguity() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("CheckOrderContiguity() = nil, want ordering error")
			}
			for _, w := range tc.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q does not name %q", err.Error(), w)
				}
			}
		})
	}
}
