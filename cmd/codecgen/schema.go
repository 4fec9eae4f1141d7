// Copyright (C) 2024 The rcodec Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"sigs.k8s.io/yaml"
)

// schema is the declarative description codecgen turns into an Iso[R, L]
// for record type Name in package Package. Fields are kept in the order
// they appear in the YAML document, since that order is also the wire
// order of the generated HList.
type schema struct {
	Package string  `json:"package"`
	Name    string  `json:"name"`
	Fields  []field `json:"fields"`
}

type field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// codecExprs maps a schema field's type tag to the codec.* call that
// builds its codec and the Go type the field holds. "bytes:N" is handled
// separately by parseBytesType, since it carries a parameter.
var codecExprs = map[string]struct {
	goType string
	expr   string
}{
	"uint8":  {"uint8", "codec.Uint8()"},
	"uint16": {"uint16", "codec.Uint16()"},
	"uint32": {"uint32", "codec.Uint32()"},
	"uint64": {"uint64", "codec.Uint64()"},
	"uuid":   {"uuid.UUID", "ext.UUID()"},
}

// supportedTypeTags lists every type tag codecExprs recognizes, plus the
// "bytes:N" family, for error messages.
func supportedTypeTags() []string {
	tags := maps.Keys(codecExprs)
	tags = append(tags, "bytes:N")
	return tags
}

func loadSchema(path string) (*schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	var s schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	if s.Package == "" {
		return nil, fmt.Errorf("schema: missing package")
	}
	if s.Name == "" {
		return nil, fmt.Errorf("schema: missing name")
	}
	if len(s.Fields) == 0 {
		return nil, fmt.Errorf("schema: record %s has no fields", s.Name)
	}
	for _, f := range s.Fields {
		if _, _, err := resolveFieldType(f.Type); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	return &s, nil
}

// resolveFieldType returns the Go field type and the codec constructor
// expression for a field's type tag.
func resolveFieldType(tag string) (goType, expr string, err error) {
	if n, ok := parseBytesType(tag); ok {
		return "bytevector.ByteVector", fmt.Sprintf("codec.Bytes(%d)", n), nil
	}
	if e, ok := codecExprs[tag]; ok {
		return e.goType, e.expr, nil
	}
	return "", "", fmt.Errorf("unsupported type %q (supported: %s)", tag, strings.Join(supportedTypeTags(), ", "))
}

func parseBytesType(tag string) (n int, ok bool) {
	rest, found := strings.CutPrefix(tag, "bytes:")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
