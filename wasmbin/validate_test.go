package wasmbin

import (
	"context"
	"testing"
)

func TestValidateCoreModules_EmptyModuleList(t *testing.T) {
	if err := ValidateCoreModules(context.Background(), &Module{}); err != nil {
		t.Errorf("expected no error for a module with no core modules, got %v", err)
	}
}

func TestValidateCoreModules_AcceptsMinimalValidModule(t *testing.T) {
	minimal := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	err := ValidateCoreModules(context.Background(), &Module{CoreModules: [][]byte{minimal}})
	if err != nil {
		t.Errorf("expected the empty-but-well-formed core module to compile, got %v", err)
	}
}

func TestValidateCoreModules_RejectsGarbage(t *testing.T) {
	garbage := []byte{0xff, 0xff, 0xff, 0xff}
	err := ValidateCoreModules(context.Background(), &Module{CoreModules: [][]byte{garbage}})
	if err == nil {
		t.Error("expected an error compiling a garbage core module")
	}
}
