package agent

import (
	"fmt"
	"reflect"
	"sort"
)

// Type represents a specific type of an agent Config. Config's with
// this type can create Agents of the corresponding type.
type Type string

const (
	Random       Type = "Random"
	BiasedIgnore Type = "BiasedIgnore"
	EGreedy      Type = "EGreedy"
)

// Registered types with the package. Once a Type has been registered
// with this map, a Config with that type can be created.
//
// No Type's are registered with this package upon initialization.
// Each separate package is in charge of registering its Type with
// the package separately to avoid circular imports.
var registeredTypes = make(map[Type]reflect.Type)

// Register registers an agent's Type with a concrete Config type
func Register(t Type, config Config) {
	ty := reflect.TypeOf(config)
	if ty.Kind() == reflect.Ptr {
		ty = ty.Elem()
	}
	registeredTypes[t] = ty
}

// NewConfig returns a new zero-valued Config of the registered Type t
func NewConfig(t Type) (Config, error) {
	ty, ok := registeredTypes[t]
	if !ok {
		return nil, fmt.Errorf("newConfig: no agent type %v registered", t)
	}

	config, ok := reflect.New(ty).Interface().(Config)
	if !ok {
		return nil, fmt.Errorf("newConfig: type %v does not implement "+
			"Config", ty)
	}
	return config, nil
}

// RegisteredTypes returns all registered agent Types in sorted order
func RegisteredTypes() []Type {
	types := make([]Type, 0, len(registeredTypes))
	for t := range registeredTypes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
