// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lookup

import (
	"testing"

	"github.com/gogpu/forge/hal"
	"github.com/gogpu/forge/types"
)

func TestShaderPackage_SelectMissingBackend(t *testing.T) {
	pkg := NewShaderPackage()
	pkg.Set(types.BackendVulkan, ShaderBlob{Code: []byte{1, 2, 3}})

	if _, ok := pkg.Select(types.BackendMetal); ok {
		t.Fatal("Select should fail for a backend the package was never given a blob for")
	}
	blob, ok := pkg.Select(types.BackendVulkan)
	if !ok || len(blob.Code) != 3 {
		t.Fatalf("Select(Vulkan) = %+v, %v", blob, ok)
	}
}

func TestShaderPackage_ToDescriptor(t *testing.T) {
	pkg := NewShaderPackage()
	pkg.Set(types.BackendVulkan, ShaderBlob{
		Code: []byte{0xDE, 0xAD},
		Reflection: ShaderReflection{
			EntryPoint: "main",
			Stages:     types.ShaderStageFragment,
		},
	})

	desc, err := pkg.ToDescriptor(types.BackendVulkan, "test-shader")
	if err != nil {
		t.Fatalf("ToDescriptor failed: %v", err)
	}
	if desc.Stage != types.ShaderStageFragment || desc.EntryPoint != "main" || len(desc.Code) != 2 {
		t.Errorf("ToDescriptor = %+v", desc)
	}

	if _, err := pkg.ToDescriptor(types.BackendDX12, "test-shader"); err == nil {
		t.Fatal("ToDescriptor should fail for a backend with no blob")
	}
}

func TestMergeShaderResources_SameNameUnionsStages(t *testing.T) {
	vertex := ShaderReflection{
		Stages: types.ShaderStageVertex,
		Resources: []ShaderResource{
			{Name: "Camera", Set: 0, Binding: 0, Type: hal.DescriptorBindingUniformBuffer, Count: 1, Stages: types.ShaderStageVertex},
		},
	}
	fragment := ShaderReflection{
		Stages: types.ShaderStageFragment,
		Resources: []ShaderResource{
			{Name: "Camera", Set: 0, Binding: 0, Type: hal.DescriptorBindingUniformBuffer, Count: 1, Stages: types.ShaderStageFragment},
			{Name: "Albedo", Set: 0, Binding: 1, Type: hal.DescriptorBindingSampledImage, Count: 1, Stages: types.ShaderStageFragment},
		},
	}

	merged, err := MergeShaderResources([]ShaderReflection{vertex, fragment})
	if err != nil {
		t.Fatalf("MergeShaderResources failed: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("len(merged) = %d, want 2", len(merged))
	}

	var camera *ShaderResource
	for i := range merged {
		if merged[i].Name == "Camera" {
			camera = &merged[i]
		}
	}
	if camera == nil {
		t.Fatal("Camera resource missing from merge")
	}
	want := types.ShaderStageVertex | types.ShaderStageFragment
	if camera.Stages != want {
		t.Errorf("Camera.Stages = %v, want %v", camera.Stages, want)
	}
}

func TestMergeShaderResources_MismatchedLocationIsRejected(t *testing.T) {
	a := ShaderReflection{Resources: []ShaderResource{{Name: "Camera", Set: 0, Binding: 0}}}
	b := ShaderReflection{Resources: []ShaderResource{{Name: "Camera", Set: 1, Binding: 0}}}

	if _, err := MergeShaderResources([]ShaderReflection{a, b}); err == nil {
		t.Fatal("expected an error for a resource whose set/binding disagrees across shaders")
	}
}

func TestMergeShaderResources_DifferentlyNamedBindingCollisionIsRejected(t *testing.T) {
	a := ShaderReflection{Resources: []ShaderResource{{Name: "A", Set: 0, Binding: 0}}}
	b := ShaderReflection{Resources: []ShaderResource{{Name: "B", Set: 0, Binding: 0}}}

	if _, err := MergeShaderResources([]ShaderReflection{a, b}); err == nil {
		t.Fatal("expected an error for two differently named resources sharing a binding")
	}
}
