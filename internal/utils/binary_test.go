package utils_test

import (
	"testing"

	"github.com/temirov/sumtree/internal/utils"
)

// TestIsBinary verifies binary detection over representative byte slices.
func TestIsBinary(testingHandle *testing.T) {
	testCases := []struct {
		name           string
		data           []byte
		expectedBinary bool
	}{
		{name: "EmptySlice", data: nil, expectedBinary: false},
		{name: "PlainText", data: []byte("package main\n"), expectedBinary: false},
		{name: "UnicodeText", data: []byte("résumé ✓\n"), expectedBinary: false},
		{name: "NulByte", data: []byte{'a', 0x00, 'b'}, expectedBinary: true},
		{name: "InvalidUTF8", data: []byte{0xff, 0xfe, 0xfd}, expectedBinary: true},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			actualBinary := utils.IsBinary(testCase.data)
			if actualBinary != testCase.expectedBinary {
				testingHandle.Fatalf("IsBinary(%v) = %v, expected %v", testCase.data, actualBinary, testCase.expectedBinary)
			}
		})
	}
}
