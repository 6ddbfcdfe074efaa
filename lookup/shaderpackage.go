// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lookup

import (
	"fmt"

	"github.com/gogpu/forge/hal"
	"github.com/gogpu/forge/types"
)

// ShaderResource is one binding a shader's reflection data declares:
// which set/binding it occupies, what kind of resource it expects, and
// which of the shader's own stages reference it (a single compiled blob
// can cover more than one stage, e.g. a combined vertex+fragment SPIR-V
// module).
type ShaderResource struct {
	Name    string
	Set     uint32
	Binding uint32
	Type    hal.DescriptorBindingType
	Count   uint32
	Stages  types.ShaderStages
}

// ShaderReflection is the reflection data attached to one compiled blob:
// its entry point, which stage(s) it can be bound to, and the resources
// it expects a RootSignature to provide.
type ShaderReflection struct {
	EntryPoint string
	Stages     types.ShaderStages
	Resources  []ShaderResource
}

// ShaderBlob is one backend's compiled representation of a shader plus
// the reflection data describing its resource expectations.
type ShaderBlob struct {
	Code       []byte
	Reflection ShaderReflection
}

// ShaderPackage bundles a shader's compiled representation for every
// backend it was built for. Select picks the blob for the backend a
// Context is actually running against; nothing in this module compiles
// shaders itself (shader compilation is out of scope), it only carries
// and selects among blobs produced elsewhere.
type ShaderPackage struct {
	blobs map[types.Backend]ShaderBlob
}

// NewShaderPackage returns an empty package ready for Set calls.
func NewShaderPackage() *ShaderPackage {
	return &ShaderPackage{blobs: make(map[types.Backend]ShaderBlob)}
}

// Set attaches the blob for backend, replacing any previous one.
func (p *ShaderPackage) Set(backend types.Backend, blob ShaderBlob) {
	p.blobs[backend] = blob
}

// Select returns the blob for backend, or false if the package was never
// given one for it.
func (p *ShaderPackage) Select(backend types.Backend) (ShaderBlob, bool) {
	blob, ok := p.blobs[backend]
	return blob, ok
}

// ToDescriptor builds a hal.ShaderDescriptor from the blob selected for
// backend.
func (p *ShaderPackage) ToDescriptor(backend types.Backend, label string) (hal.ShaderDescriptor, error) {
	blob, ok := p.Select(backend)
	if !ok {
		return hal.ShaderDescriptor{}, fmt.Errorf("lookup: shader package has no blob for backend %s", backend)
	}
	return hal.ShaderDescriptor{
		Label:      label,
		Stage:      stageForRootSignature(blob.Reflection.Stages),
		EntryPoint: blob.Reflection.EntryPoint,
		Code:       blob.Code,
	}, nil
}

func stageForRootSignature(stages types.ShaderStages) types.ShaderStage {
	switch {
	case stages&types.ShaderStageCompute != 0:
		return types.ShaderStageCompute
	case stages&types.ShaderStageFragment != 0:
		return types.ShaderStageFragment
	default:
		return types.ShaderStageVertex
	}
}

// MergeShaderResources merges the reflected resources of every shader
// that will share one RootSignature, matching bindings by name: a
// resource seen under the same name in more than one reflection must
// agree on set and binding, and the merged entry's Stages is the union
// of every stage that references it. Two differently-named resources
// that collide on the same (set, binding) are rejected rather than
// silently picked between, since that means the shaders disagree about
// what occupies that slot.
func MergeShaderResources(reflections []ShaderReflection) ([]ShaderResource, error) {
	var merged []ShaderResource
	byName := make(map[string]int)

	for _, refl := range reflections {
		for _, res := range refl.Resources {
			if res.Name != "" {
				if idx, ok := byName[res.Name]; ok {
					existing := &merged[idx]
					if existing.Set != res.Set || existing.Binding != res.Binding {
						return nil, fmt.Errorf(
							"lookup: shader resource %q has mismatching location (set=%d binding=%d) vs (set=%d binding=%d) across shaders in the same root signature",
							res.Name, res.Set, res.Binding, existing.Set, existing.Binding)
					}
					existing.Stages |= res.Stages
					continue
				}
			}

			if conflict := findBindingConflict(merged, res); conflict >= 0 {
				return nil, fmt.Errorf(
					"lookup: shader resource at (set=%d binding=%d) is used by more than one differently named resource across shaders in the same root signature",
					res.Set, res.Binding)
			}

			merged = append(merged, res)
			if res.Name != "" {
				byName[res.Name] = len(merged) - 1
			}
		}
	}

	return merged, nil
}

func findBindingConflict(merged []ShaderResource, res ShaderResource) int {
	for i, m := range merged {
		if m.Set == res.Set && m.Binding == res.Binding && m.Name != res.Name {
			return i
		}
	}
	return -1
}
