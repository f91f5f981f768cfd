// Package output persists summary trees as nested JSON and renders them as
// indented text.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/temirov/sumtree/internal/types"
)

const (
	indentUnit = "  "

	errorEncodeChildFormat = "encoding %s: %w"
	errorUnexpectedValue   = "unexpected value for %q"
)

// ErrTreeFileNotFound signals that no persisted tree exists yet.
var ErrTreeFileNotFound = errors.New("summary tree file not found; run 'sumtree scan' first")

// ErrMalformedTreeFile signals that the persisted tree could not be parsed.
var ErrMalformedTreeFile = errors.New("summary tree file is malformed")

// EncodeTree serializes the tree rooted at node into nested JSON. Directory
// nodes become objects whose keys appear in child insertion order; file nodes
// become their summary strings. The standard library encoder cannot be used
// directly for directories because map-based marshaling would sort keys, so
// objects are written by hand from the ordered child slice. An empty root
// encodes to {}.
func EncodeTree(rootNode *types.Node) ([]byte, error) {
	var buffer bytes.Buffer
	if encodeError := encodeDirectory(&buffer, rootNode, 0); encodeError != nil {
		return nil, encodeError
	}
	buffer.WriteByte('\n')
	return buffer.Bytes(), nil
}

// encodeDirectory writes one directory object at the given indent depth.
func encodeDirectory(buffer *bytes.Buffer, directoryNode *types.Node, indentLevel int) error {
	if len(directoryNode.Children) == 0 {
		buffer.WriteString("{}")
		return nil
	}

	buffer.WriteString("{\n")
	childIndent := indentString(indentLevel + 1)
	for childIndex, childNode := range directoryNode.Children {
		encodedName, nameError := json.Marshal(childNode.Name)
		if nameError != nil {
			return fmt.Errorf(errorEncodeChildFormat, childNode.Name, nameError)
		}
		buffer.WriteString(childIndent)
		buffer.Write(encodedName)
		buffer.WriteString(": ")

		if childNode.IsDirectory() {
			if encodeError := encodeDirectory(buffer, childNode, indentLevel+1); encodeError != nil {
				return encodeError
			}
		} else {
			encodedSummary, summaryError := json.Marshal(childNode.Summary)
			if summaryError != nil {
				return fmt.Errorf(errorEncodeChildFormat, childNode.Name, summaryError)
			}
			buffer.Write(encodedSummary)
		}

		if childIndex < len(directoryNode.Children)-1 {
			buffer.WriteByte(',')
		}
		buffer.WriteByte('\n')
	}
	buffer.WriteString(indentString(indentLevel))
	buffer.WriteByte('}')
	return nil
}

// DecodeTree reconstructs a tree from nested JSON produced by EncodeTree.
// A json.Decoder token walk preserves the document's key order, so sibling
// order survives the round trip. The returned root carries no name.
func DecodeTree(encodedTree []byte) (*types.Node, error) {
	decoder := json.NewDecoder(bytes.NewReader(encodedTree))
	openingToken, tokenError := decoder.Token()
	if tokenError != nil {
		return nil, tokenError
	}
	if delimiter, isDelimiter := openingToken.(json.Delim); !isDelimiter || delimiter != '{' {
		return nil, fmt.Errorf("expected object, got %v", openingToken)
	}

	rootNode := types.NewDirectoryNode("")
	if decodeError := decodeDirectory(decoder, rootNode); decodeError != nil {
		return nil, decodeError
	}
	if _, trailingError := decoder.Token(); trailingError != io.EOF {
		return nil, errors.New("unexpected content after tree document")
	}
	return rootNode, nil
}

// decodeDirectory consumes the members of an already-opened object.
func decodeDirectory(decoder *json.Decoder, directoryNode *types.Node) error {
	for decoder.More() {
		keyToken, keyError := decoder.Token()
		if keyError != nil {
			return keyError
		}
		childName, isString := keyToken.(string)
		if !isString {
			return fmt.Errorf("expected object key, got %v", keyToken)
		}

		valueToken, valueError := decoder.Token()
		if valueError != nil {
			return valueError
		}
		switch value := valueToken.(type) {
		case json.Delim:
			if value != '{' {
				return fmt.Errorf(errorUnexpectedValue, childName)
			}
			childDirectory := types.NewDirectoryNode(childName)
			if decodeError := decodeDirectory(decoder, childDirectory); decodeError != nil {
				return decodeError
			}
			directoryNode.AppendChild(childDirectory)
		case string:
			directoryNode.AppendChild(types.NewFileNode(childName, value))
		default:
			return fmt.Errorf(errorUnexpectedValue, childName)
		}
	}

	closingToken, closingError := decoder.Token()
	if closingError != nil {
		return closingError
	}
	if delimiter, isDelimiter := closingToken.(json.Delim); !isDelimiter || delimiter != '}' {
		return fmt.Errorf("expected closing brace, got %v", closingToken)
	}
	return nil
}

// WriteTreeFile persists the encoded tree at treeFilePath.
func WriteTreeFile(treeFilePath string, rootNode *types.Node) error {
	encodedTree, encodeError := EncodeTree(rootNode)
	if encodeError != nil {
		return encodeError
	}
	return os.WriteFile(treeFilePath, encodedTree, 0o644)
}

// LoadTreeFile reads and decodes a persisted tree, distinguishing a missing
// file from malformed content.
func LoadTreeFile(treeFilePath string) (*types.Node, error) {
	encodedTree, readError := os.ReadFile(treeFilePath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return nil, fmt.Errorf("%w: %s", ErrTreeFileNotFound, treeFilePath)
		}
		return nil, readError
	}
	rootNode, decodeError := DecodeTree(encodedTree)
	if decodeError != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedTreeFile, treeFilePath, decodeError)
	}
	return rootNode, nil
}

// indentString returns the indentation for the given depth.
func indentString(indentLevel int) string {
	indentation := make([]byte, 0, indentLevel*len(indentUnit))
	for levelIndex := 0; levelIndex < indentLevel; levelIndex++ {
		indentation = append(indentation, indentUnit...)
	}
	return string(indentation)
}
