// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"fmt"
	"slices"
	"strings"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"gjavac.256lights.llc/pkg/internal/jvmir"
)

// Metadata describes the contract a module was translated to.
// It is written next to the assembly as JSON.
type Metadata struct {
	// Events is the list of event names the contract can emit.
	Events []string
	// APIs is the list of the contract's callable methods.
	APIs []string
	// OfflineAPIs is the subset of APIs that do not modify the chain.
	OfflineAPIs []string
	// StorageTypes lists the contract's storage properties.
	StorageTypes []StorageProperty
	// APIArgTypes lists the parameter types of each API.
	APIArgTypes []APIArgs
}

// StorageProperty is a property of a contract's persistent storage.
type StorageProperty struct {
	Name string
	Kind StorageKind
}

// StorageKind is the value type of a storage property.
type StorageKind int

// Storage kinds.
const (
	StorageInt    StorageKind = 1
	StorageNumber StorageKind = 2
	StorageBool   StorageKind = 3
	StorageString StorageKind = 4
)

// APIArgs is the list of parameter types of a contract API.
type APIArgs struct {
	Name string
	Args []TypeKind
}

// TypeKind is the UVM type of an API parameter.
type TypeKind int

// Type kinds.
const (
	TypeString TypeKind = 2
	TypeInt    TypeKind = 3
	TypeNumber TypeKind = 4
	TypeBool   TypeKind = 5
)

// MarshalJSONTo writes the metadata as a JSON object
// with the member names the UVM tooling expects.
func (md *Metadata) MarshalJSONTo(enc *jsontext.Encoder) error {
	storage := make([][2]any, 0, len(md.StorageTypes))
	for _, prop := range md.StorageTypes {
		storage = append(storage, [2]any{prop.Name, int(prop.Kind)})
	}
	apiArgs := make([][2]any, 0, len(md.APIArgTypes))
	for _, api := range md.APIArgTypes {
		args := make([]int, 0, len(api.Args))
		for _, k := range api.Args {
			args = append(args, int(k))
		}
		apiArgs = append(apiArgs, [2]any{api.Name, args})
	}

	members := []struct {
		name  string
		value any
	}{
		{"event", nonNil(md.Events)},
		{"api", nonNil(md.APIs)},
		{"offline_api", nonNil(md.OfflineAPIs)},
		{"storage_properties_types", storage},
		{"api_args_types", apiArgs},
	}
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	for _, m := range members {
		if err := enc.WriteToken(jsontext.String(m.name)); err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		if err := jsonv2.MarshalEncode(enc, m.value); err != nil {
			return fmt.Errorf("marshal metadata: %s: %w", m.name, err)
		}
	}
	if err := enc.WriteToken(jsontext.EndObject); err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// collectEvents returns the event names declared by the module's event emitters.
// An emitter declares an event X with a static emitX(String) method.
func collectEvents(module *jvmir.Module) ([]string, error) {
	var events []string
	for _, c := range module.Classes {
		if !c.IsEventEmitter() {
			continue
		}
		for _, m := range c.Methods {
			event, ok := strings.CutPrefix(m.Name, "emit")
			if !ok || event == "" {
				continue
			}
			if !m.Static {
				return nil, moduleErrorf("event method %s.%s must be static", c.Name, m.Name)
			}
			sig, err := m.Signature()
			if err != nil {
				return nil, moduleErrorf("%s.%s: %v", c.Name, m.Name, err)
			}
			if len(sig.Params) != 1 || sig.Params[0].FullName() != "java.lang.String" {
				return nil, moduleErrorf("event method %s.%s must take exactly one String argument", c.Name, m.Name)
			}
			if !slices.Contains(events, event) {
				events = append(events, event)
			}
		}
	}
	return events, nil
}

// contractAPIs fills in the API members of md from the contract class.
func contractAPIs(md *Metadata, contract *jvmir.Class) error {
	for _, m := range contract.Methods {
		if m.Name == "<init>" {
			continue
		}
		sig, err := m.Signature()
		if err != nil {
			return moduleErrorf("%s.%s: %v", contract.Name, m.Name, err)
		}
		args := make([]TypeKind, 0, len(sig.Params))
		for _, param := range sig.Params {
			k, err := typeKind(param)
			if err != nil {
				return moduleErrorf("%s.%s: %v", contract.Name, m.Name, err)
			}
			args = append(args, k)
		}
		md.APIs = append(md.APIs, m.Name)
		if m.HasAnnotation(jvmir.OfflineAnnotation) {
			md.OfflineAPIs = append(md.OfflineAPIs, m.Name)
		}
		i := slices.IndexFunc(md.APIArgTypes, func(api APIArgs) bool { return api.Name == m.Name })
		if i >= 0 {
			md.APIArgTypes[i].Args = args
		} else {
			md.APIArgTypes = append(md.APIArgTypes, APIArgs{Name: m.Name, Args: args})
		}
	}
	return nil
}

func typeKind(t jvmir.Type) (TypeKind, error) {
	switch t.FullName() {
	case "java.lang.String":
		return TypeString, nil
	case "int", "java.lang.Integer", "long", "java.lang.Long":
		return TypeInt, nil
	case "float", "java.lang.Float", "double", "java.lang.Double":
		return TypeNumber, nil
	case "boolean", "java.lang.Boolean":
		return TypeBool, nil
	default:
		return 0, fmt.Errorf("unsupported argument type %v", t)
	}
}

// storageTypes returns the kinds of the contract's storage properties.
func storageTypes(contract *jvmir.Class) ([]StorageProperty, error) {
	var props []StorageProperty
	for _, prop := range contract.Storage {
		t, err := jvmir.ParseType(prop.Type)
		if err != nil {
			return nil, moduleErrorf("storage property %s: %v", prop.Name, err)
		}
		var k StorageKind
		switch t.FullName() {
		case "java.lang.String":
			k = StorageString
		case "int", "java.lang.Integer", "long", "java.lang.Long":
			k = StorageInt
		case "float", "java.lang.Float", "double", "java.lang.Double":
			k = StorageNumber
		case "boolean", "java.lang.Boolean":
			k = StorageBool
		default:
			return nil, moduleErrorf("storage property %s: unsupported type %v", prop.Name, t)
		}
		props = append(props, StorageProperty{Name: prop.Name, Kind: k})
	}
	return props, nil
}
