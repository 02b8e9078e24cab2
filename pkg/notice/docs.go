package notice

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"
)

var (
	anchorRegex = regexp.MustCompile(`^<a name="(\w+(Error|Notice))"/>`)
	headerRegex = regexp.MustCompile(`^### (([a-z0-9]+_)*[a-z0-9]+)`)
)

// Document is the set of notice kinds an external reference document
// describes: anchors by kind name and section headers by code.
type Document struct {
	Anchors []string
	Codes   []string
}

// ParseDocument scans a markdown notice reference. Anchors look like
// `<a name="EmptyRowNotice"/>` and headers like `### empty_row`.
func ParseDocument(r io.Reader) (Document, error) {
	var doc Document
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if m := anchorRegex.FindStringSubmatch(line); m != nil {
			doc.Anchors = append(doc.Anchors, m[1])
			continue
		}
		if m := headerRegex.FindStringSubmatch(line); m != nil {
			doc.Codes = append(doc.Codes, m[1])
		}
	}
	if err := sc.Err(); err != nil {
		return Document{}, fmt.Errorf("reading notice document: %w", err)
	}
	return doc, nil
}

// CheckDocumentation verifies the documentation contract of every
// registered kind: each kind and each of its fields has a description, and
// the set of codes matches expected exactly. All problems are reported in
// one joined error.
func CheckDocumentation(expected []string) error {
	var errs []error
	known := make(map[string]bool)

	for _, d := range All() {
		known[d.Code] = true
		if strings.TrimSpace(d.Description) == "" {
			errs = append(errs, fmt.Errorf("%s: missing description", d.Name))
		}
		for _, f := range d.Fields {
			if strings.TrimSpace(f.Description) == "" {
				errs = append(errs, fmt.Errorf("%s: field %q has no description", d.Name, f.Name))
			}
		}
		if !slices.Contains(expected, d.Code) {
			errs = append(errs, fmt.Errorf("%s: code %q is not in the notice document", d.Name, d.Code))
		}
	}
	for _, code := range expected {
		if !known[code] {
			errs = append(errs, fmt.Errorf("notice document lists unknown code %q", code))
		}
	}
	return errors.Join(errs...)
}

// CheckDocument runs CheckDocumentation against the document's codes and
// additionally requires an anchor for every registered kind name.
func CheckDocument(doc Document) error {
	errs := []error{CheckDocumentation(doc.Codes)}
	for _, d := range All() {
		if !slices.Contains(doc.Anchors, d.Name) {
			errs = append(errs, fmt.Errorf("%s: no anchor in the notice document", d.Name))
		}
	}
	return errors.Join(errs...)
}
