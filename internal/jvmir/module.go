// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

// Package jvmir provides the structured form of JVM classes
// that the translator consumes.
//
// A [Module] is produced by an external class file reader
// and serialized as JSON (comments and trailing commas are permitted).
// Class and owner names use the slash-separated internal form,
// e.g. "java/lang/String".
package jvmir

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Well-known class and annotation names of the contract library.
const (
	ContractBaseClass     = "gjavac/lib/UvmContract"
	ContractAnnotation    = "gjavac/lib/Contract"
	ComponentAnnotation   = "gjavac/lib/Component"
	OfflineAnnotation     = "gjavac/lib/Offline"
	EventEmitterInterface = "gjavac/lib/IUvmEventEmitter"
)

// Module is the set of classes translated together.
type Module struct {
	Classes []*Class `json:"classes"`
}

// Class returns the class with the given name or nil.
func (m *Module) Class(name string) *Class {
	name = InternalName(name)
	for _, c := range m.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ClassKind is the explicit role tag of a class.
type ClassKind int

// Class kinds.
const (
	ClassPlain ClassKind = iota
	ClassContract
	ClassComponent
)

var classKindNames = [...]string{
	ClassPlain:     "plain",
	ClassContract:  "contract",
	ClassComponent: "component",
}

func (k ClassKind) String() string {
	if k < 0 || int(k) >= len(classKindNames) {
		return "ClassKind(" + strconv.Itoa(int(k)) + ")"
	}
	return classKindNames[k]
}

// MarshalText returns the lower-case name of the kind.
func (k ClassKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(classKindNames) {
		return nil, fmt.Errorf("marshal class kind: unknown kind %d", int(k))
	}
	return []byte(classKindNames[k]), nil
}

// UnmarshalText parses a kind name.
func (k *ClassKind) UnmarshalText(text []byte) error {
	i := slices.Index(classKindNames[:], string(text))
	if i < 0 {
		return fmt.Errorf("unmarshal class kind: unknown kind %q", text)
	}
	*k = ClassKind(i)
	return nil
}

// Class is a decoded JVM class.
type Class struct {
	Name        string            `json:"name"`
	SuperName   string            `json:"super,omitzero"`
	Interfaces  []string          `json:"interfaces,omitzero"`
	Annotations []string          `json:"annotations,omitzero"`
	Kind        ClassKind         `json:"kind,omitzero"`
	Storage     []StorageProperty `json:"storage,omitzero"`
	Fields      []Field           `json:"fields,omitzero"`
	Methods     []*Method         `json:"methods,omitzero"`
}

// Method returns the first method with the given name or nil.
func (c *Class) Method(name string) *Method {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// IsMain reports whether the class declares a non-static main method.
func (c *Class) IsMain() bool {
	for _, m := range c.Methods {
		if m.Name == "main" && !m.Static {
			return true
		}
	}
	return false
}

// IsContract reports whether the class is a contract class.
func (c *Class) IsContract() bool {
	return c.Kind == ClassContract || strings.HasPrefix(c.SuperName, ContractBaseClass)
}

// IsComponent reports whether the class is a component class.
func (c *Class) IsComponent() bool {
	return c.Kind == ClassComponent || c.HasAnnotation(ComponentAnnotation)
}

// IsEventEmitter reports whether the class implements the event emitter interface.
func (c *Class) IsEventEmitter() bool {
	return slices.Contains(c.Interfaces, EventEmitterInterface)
}

// HasAnnotation reports whether the class carries the given annotation.
func (c *Class) HasAnnotation(name string) bool {
	return slices.Contains(c.Annotations, InternalName(name))
}

// Field is a field declaration.
type Field struct {
	Name       string `json:"name"`
	Descriptor string `json:"desc"`
	Static     bool   `json:"static,omitzero"`
}

// StorageProperty is a contract storage field and its value type.
type StorageProperty struct {
	Name string `json:"name"`
	// Type is a field descriptor.
	Type string `json:"type"`
}

// Method is a decoded method with its code.
type Method struct {
	Name        string   `json:"name"`
	Descriptor  string   `json:"desc"`
	Static      bool     `json:"static,omitzero"`
	Public      bool     `json:"public,omitzero"`
	Annotations []string `json:"annotations,omitzero"`
	// MaxLocals is the number of local variable slots the method uses,
	// including the receiver and parameters.
	MaxLocals int            `json:"maxLocals"`
	Code      []*Instruction `json:"code"`
	// Labels maps label names to instruction offsets.
	Labels map[string]int `json:"labels,omitzero"`

	// Class is the class that declares the method.
	Class *Class `json:"-"`
}

// Signature parses the method's descriptor.
func (m *Method) Signature() (*MethodType, error) {
	return ParseMethodType(m.Descriptor)
}

// HasAnnotation reports whether the method carries the given annotation.
func (m *Method) HasAnnotation(name string) bool {
	return slices.Contains(m.Annotations, InternalName(name))
}

// OffsetOfLabel returns the offset of the instruction a label refers to.
func (m *Method) OffsetOfLabel(name string) (int, bool) {
	off, ok := m.Labels[name]
	return off, ok
}

// InternalName converts a dotted Java name to the slash-separated internal form.
func InternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
