package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// UnityTag is the tag directive Unity declares for the !u! handle.
	UnityTag = "%TAG !u! tag:unity3d.com,2011:"

	docStart  = "--- !u!"
	tagPrefix = "tag:unity3d.com,2011:"
)

var trailingWord = regexp.MustCompile(` [a-z]+$`)

// Convert copies a Unity scene from r to w as valid YAML. Every document
// after the first is preceded by an end marker and the tag directive, and
// loses any trailing lowercase word after its anchor.
func Convert(r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	bw := bufio.NewWriter(w)

	inDoc := false
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, docStart) {
			if inDoc {
				bw.WriteString("...\n")
				bw.WriteString(UnityTag)
				bw.WriteString("\n")
				line = trailingWord.ReplaceAllString(line, "")
			}
			inDoc = true
		}
		bw.WriteString(line)
		bw.WriteString("\n")
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read scene: %w", err)
	}
	return bw.Flush()
}

// Object is one serialized Unity object.
type Object struct {
	// ClassID is the numeric Unity class from the document tag.
	ClassID int `json:"class_id"`

	// Type is the object's top-level key, e.g. "GameObject".
	Type string `json:"type"`

	// FileID is the document anchor.
	FileID string `json:"file_id"`
}

// Validate parses converted YAML from r and returns the number of
// documents, or the first parse error.
func Validate(r io.Reader) (int, error) {
	objects, err := Parse(r)
	return len(objects), err
}

// Parse decodes every document of converted YAML from r.
func Parse(r io.Reader) ([]Object, error) {
	dec := yaml.NewDecoder(r)
	var objects []Object

	for i := 1; ; i++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return objects, nil
		}
		if err != nil {
			return objects, fmt.Errorf("document %d: %w", i, err)
		}
		objects = append(objects, describe(&node))
	}
}

func describe(doc *yaml.Node) Object {
	var obj Object
	root := doc
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root = doc.Content[0]
	}

	obj.FileID = root.Anchor
	if id, err := strconv.Atoi(strings.TrimPrefix(root.Tag, tagPrefix)); err == nil {
		obj.ClassID = id
	}
	if root.Kind == yaml.MappingNode && len(root.Content) > 0 {
		obj.Type = root.Content[0].Value
	}
	return obj
}

// TypeCount is the number of objects of one type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Summarize counts objects per type, most frequent first.
func Summarize(objects []Object) []TypeCount {
	counts := make(map[string]int)
	for _, o := range objects {
		counts[o.Type]++
	}

	out := make([]TypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}
