package text_feeder

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/sbezverk/parsort/feeder"
)

func TestCollect(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []int
		fail   bool
	}{
		{
			name:   "empty input",
			input:  "",
			expect: []int{},
		},
		{
			name:   "numbers",
			input:  "9\n1\n8\n2\n7\n3\n",
			expect: []int{9, 1, 8, 2, 7, 3},
		},
		{
			name:   "blank lines and spaces",
			input:  "\n  5 \n\n3\r\n5",
			expect: []int{5, 3, 5},
		},
		{
			name:  "invalid line",
			input: "1\ntwo\n3",
			fail:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := feeder.Collect(New(strings.NewReader(tt.input), strconv.Atoi))
			if tt.fail {
				if !errors.Is(err, feeder.ErrDecodeRecord) {
					t.Fatalf("supposed to fail with %v but got: %+v", feeder.ErrDecodeRecord, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("supposed to succeed but failed with error: %+v", err)
			}
			if diff := deep.Equal(got, tt.expect); diff != nil {
				t.Errorf("%+v", diff)
			}
		})
	}
}
