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

// Command codecgen reads a declarative YAML field schema and emits the
// Iso[R, L] boilerplate (plus the matching HList type alias) that binds a
// hand-written record type to codec.Struct. It stands in for the
// record-isomorphism "code generator" external collaborator the core
// package's documentation describes but does not itself provide.
package main

import (
	"flag"
	"log"
	"os"
)

var (
	schemaPath = flag.String("schema", "", "path to the YAML field schema")
	outPath    = flag.String("out", "", "path to write the generated Go source")
)

func main() {
	flag.Parse()
	if *schemaPath == "" {
		log.Fatal("codecgen: -schema is required")
	}
	if *outPath == "" {
		log.Fatal("codecgen: -out is required")
	}

	s, err := loadSchema(*schemaPath)
	if err != nil {
		log.Fatalf("codecgen: %s", err)
	}

	data, err := render(schemaToGenData(s))
	if err != nil {
		log.Fatalf("codecgen: %s", err)
	}

	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		log.Fatalf("codecgen: writing %s: %s", *outPath, err)
	}
}

// schemaToGenData walks s's fields, threading the chain of .Tail/.Head
// selectors each field needs to reach its value inside the generated
// HList, and builds the nested HCons[...] type alias matching that order.
func schemaToGenData(s *schema) genData {
	fields := make([]genField, len(s.Fields))
	path := ""
	for i, f := range s.Fields {
		_, expr, _ := resolveFieldType(f.Type)
		fields[i] = genField{
			Name:      f.Name,
			CodecExpr: expr,
			Path:      path + "Head",
		}
		path += "Tail."
	}
	return genData{
		Package:   s.Package,
		Name:      s.Name,
		Fields:    fields,
		HListType: hlistType(s.Fields),
		NeedsUUID: needsUUID(s.Fields),
	}
}

func needsUUID(fields []field) bool {
	for _, f := range fields {
		if f.Type == "uuid" {
			return true
		}
	}
	return false
}

// hlistType renders the nested hlist.HCons[...] type alias for fields, in
// declaration order, terminated by hlist.HNil.
func hlistType(fields []field) string {
	if len(fields) == 0 {
		return "hlist.HNil"
	}
	goType, _, _ := resolveFieldType(fields[0].Type)
	return "hlist.HCons[" + goType + ", " + hlistType(fields[1:]) + "]"
}
