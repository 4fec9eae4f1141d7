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
	"bytes"
	"fmt"
	"text/template"
)

// genField is what the template sees for one schema field: its record
// field name, the codec constructor expression that decodes it, and Path,
// the chain of .Tail/.Head selectors that reaches this field's value
// inside the generated HList ("Head", "Tail.Head", ...); the template
// prefixes it with the HList variable "l.".
type genField struct {
	Name      string
	CodecExpr string
	Path      string
}

type genData struct {
	Package string
	Name    string
	Fields  []genField
	// HListType is the full nested HCons[...] type alias for the record.
	HListType string
	// NeedsUUID is set when some field's Go type is uuid.UUID, so the
	// generated file must import github.com/google/uuid.
	NeedsUUID bool
}

var genFuncs = template.FuncMap{
	"toHListExpr": toHListExpr,
	"codecExpr":   codecExpr,
}

var genTemplate = template.Must(template.New("iso").Funcs(genFuncs).Parse(`// Code generated by codecgen. DO NOT EDIT.

package {{.Package}}

import (
{{if .NeedsUUID}}	"github.com/google/uuid"
{{end}}	"github.com/plausiblelabs/rcodec/bytevector"
	"github.com/plausiblelabs/rcodec/codec"
	"github.com/plausiblelabs/rcodec/ext"
	"github.com/plausiblelabs/rcodec/hlist"
)

// {{.Name}}HList is the HList shape {{.Name}}'s fields decompose into, in
// declaration order.
type {{.Name}}HList = {{.HListType}}

// {{.Name}}Iso is the record isomorphism consumed by codec.Struct.
var {{.Name}}Iso = codec.Iso[{{.Name}}, {{.Name}}HList]{
	ToHList: func(r {{.Name}}) {{.Name}}HList {
		return {{toHListExpr .Fields}}
	},
	FromHList: func(l {{.Name}}HList) {{.Name}} {
		return {{.Name}}{
{{range .Fields}}			{{.Name}}: l.{{.Path}},
{{end}}		}
	},
}

// {{.Name}}Codec is the HList codec for {{.Name}}HList, built field-by-field
// in declaration order from the schema.
func {{.Name}}Codec() codec.Codec[{{.Name}}HList] {
	return {{codecExpr .Fields}}
}

var _ = bytevector.Empty
var _ = ext.UUID
`))

func toHListExpr(fields []genField) string {
	return consExpr(fields, 0)
}

func consExpr(fields []genField, i int) string {
	if i == len(fields) {
		return "hlist.HNil{}"
	}
	return fmt.Sprintf("hlist.Cons(r.%s, %s)", fields[i].Name, consExpr(fields, i+1))
}

func codecExpr(fields []genField) string {
	return codecExprAt(fields, 0)
}

func codecExprAt(fields []genField, i int) string {
	if i == len(fields) {
		return "codec.New[hlist.HNil](\"hnil\", " +
			"func(hlist.HNil) (bytevector.ByteVector, error) { return bytevector.Empty(), nil }, " +
			"func(bv bytevector.ByteVector) (hlist.HNil, bytevector.ByteVector, error) { return hlist.HNil{}, bv, nil })"
	}
	return fmt.Sprintf("codec.Prepend(%s, %s)", fields[i].CodecExpr, codecExprAt(fields, i+1))
}

func render(d genData) ([]byte, error) {
	var buf bytes.Buffer
	if err := genTemplate.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}
	return buf.Bytes(), nil
}
