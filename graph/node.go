// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package graph

import (
	"github.com/gogpu/forge/hal"
	"github.com/gogpu/forge/types"
)

// AccessKind classifies how a usage relates to its virtual resource's
// version chain.
type AccessKind uint8

const (
	// AccessCreate produces version 0 of a new virtual resource.
	AccessCreate AccessKind = iota
	// AccessRead consumes an existing version without producing a new one.
	AccessRead
	// AccessModifyRead is the read half of a modify: consumes the input
	// version.
	AccessModifyRead
	// AccessModifyWrite is the write half of a modify: produces a new
	// version.
	AccessModifyWrite
)

// ImageRole classifies what a usage does with an image, which determines
// the hal.ResourceState it requires and whether it can participate in
// renderpass merging.
type ImageRole uint8

const (
	ImageRoleSampled ImageRole = iota
	ImageRoleStorage
	ImageRoleColorAttachment
	ImageRoleDepthAttachment
	ImageRoleResolveAttachment
	ImageRoleCopySrc
	ImageRoleCopyDst
	ImageRoleOutput
)

func (r ImageRole) resourceState() hal.ResourceState {
	switch r {
	case ImageRoleSampled:
		return hal.ResourceStateShaderResource
	case ImageRoleStorage:
		return hal.ResourceStateStorage
	case ImageRoleColorAttachment, ImageRoleResolveAttachment:
		return hal.ResourceStateColorAttachment
	case ImageRoleDepthAttachment:
		return hal.ResourceStateDepthStencil
	case ImageRoleCopySrc:
		return hal.ResourceStateCopySrc
	case ImageRoleCopyDst:
		return hal.ResourceStateCopyDst
	case ImageRoleOutput:
		return hal.ResourceStatePresent
	default:
		return hal.ResourceStateUndefined
	}
}

// BufferRole is the buffer analogue of ImageRole.
type BufferRole uint8

const (
	BufferRoleVertex BufferRole = iota
	BufferRoleIndex
	BufferRoleIndirect
	BufferRoleUniform
	BufferRoleStorage
	BufferRoleCopySrc
	BufferRoleCopyDst
)

func (r BufferRole) resourceState() hal.ResourceState {
	switch r {
	case BufferRoleVertex:
		return hal.ResourceStateVertexBuffer
	case BufferRoleIndex:
		return hal.ResourceStateIndexBuffer
	case BufferRoleIndirect:
		return hal.ResourceStateIndirectArgument
	case BufferRoleUniform:
		return hal.ResourceStateUniformBuffer
	case BufferRoleStorage:
		return hal.ResourceStateStorage
	case BufferRoleCopySrc:
		return hal.ResourceStateCopySrc
	case BufferRoleCopyDst:
		return hal.ResourceStateCopyDst
	default:
		return hal.ResourceStateUndefined
	}
}

// ImageUsage is one node's interaction with a virtual image.
type ImageUsage struct {
	ID         ImageUsageID
	Node       NodeID
	Virtual    VirtualImageID
	Version    ImageVersionID
	Access     AccessKind
	Role       ImageRole
	Constraint ImageConstraint
}

// BufferUsage is one node's interaction with a virtual buffer.
type BufferUsage struct {
	ID         BufferUsageID
	Node       NodeID
	Virtual    VirtualBufferID
	Version    BufferVersionID
	Access     AccessKind
	Role       BufferRole
	Constraint BufferConstraint
}

// LoadOp/StoreOp mirror the HAL's uint8-coded load/store policy constants
// used by AttachmentDescriptor; renderpass.go assigns them directly.
const (
	LoadOpLoad uint8 = iota
	LoadOpClear
	LoadOpDontCare
)

const (
	StoreOpStore uint8 = iota
	StoreOpDontCare
)

// ColorClear is an attachment's clear color, used only when its load op is
// LoadOpClear.
type ColorClear = types.Color

// AttachmentBinding associates an image usage with its attachment slot
// load/clear behavior. The store op and final load-for-merge decision are
// resolved by the renderpass-merge pass, not stored here.
type AttachmentBinding struct {
	Usage     ImageUsageID
	LoadOp    uint8
	ClearColor ColorClear
	ClearDepth float32
	ClearStencil uint32
}

const maxColorAttachments = 4

// Node is one declared pass: a callback plus the image/buffer usages it
// records via its declaration methods (CreateImage, ReadImage, ...).
type Node struct {
	ID          NodeID
	Name        string
	Queue       hal.QueueType
	CanBeCulled bool

	ImageUsages  []*ImageUsage
	BufferUsages []*BufferUsage

	ExplicitDeps []NodeID

	ColorAttachments   [maxColorAttachments]*AttachmentBinding
	DepthAttachment    *AttachmentBinding
	ResolveAttachments [maxColorAttachments]*AttachmentBinding

	Callback func(*PassContext) error

	graph *Graph
}

// HasAttachments reports whether this node declares any renderpass
// attachment, the condition for it to be treated as a raster pass eligible
// for subpass merging rather than a callback-only pass.
func (n *Node) HasAttachments() bool {
	if n.DepthAttachment != nil {
		return true
	}
	for _, c := range n.ColorAttachments {
		if c != nil {
			return true
		}
	}
	return false
}

// SetCallback assigns the pass body, invoked during Plan.Execute.
func (n *Node) SetCallback(cb func(*PassContext) error) { n.Callback = cb }

// DependsOn forces n to execute after dep, independent of any data usage.
func (n *Node) DependsOn(dep NodeID) { n.ExplicitDeps = append(n.ExplicitDeps, dep) }

// SetCanBeCulled overrides the default (true): a node with CanBeCulled=false
// always survives culling even if none of its outputs reach an output
// binding (e.g. a debug overlay pass with side effects the graph can't see).
func (n *Node) SetCanBeCulled(v bool) { n.CanBeCulled = v }

func (n *Node) newImageUsage(virtual VirtualImageID, version ImageVersionID, access AccessKind, role ImageRole, c ImageConstraint) *ImageUsage {
	u := &ImageUsage{
		ID:         n.graph.nextImageUsageID(),
		Node:       n.ID,
		Virtual:    virtual,
		Version:    version,
		Access:     access,
		Role:       role,
		Constraint: c,
	}
	n.ImageUsages = append(n.ImageUsages, u)
	n.graph.imageUsages = append(n.graph.imageUsages, u)
	return u
}

func (n *Node) newBufferUsage(virtual VirtualBufferID, version BufferVersionID, access AccessKind, role BufferRole, c BufferConstraint) *BufferUsage {
	u := &BufferUsage{
		ID:         n.graph.nextBufferUsageID(),
		Node:       n.ID,
		Virtual:    virtual,
		Version:    version,
		Access:     access,
		Role:       role,
		Constraint: c,
	}
	n.BufferUsages = append(n.BufferUsages, u)
	n.graph.bufferUsages = append(n.graph.bufferUsages, u)
	return u
}

// CreateImage declares a brand new virtual image with this node as its
// first writer, recorded with role for barrier/attachment purposes.
func (n *Node) CreateImage(name string, role ImageRole, c ImageConstraint) ImageUsageID {
	vid := n.graph.newVirtualImage(name)
	version := ImageVersionID{Index: vid, Version: 0}
	u := n.newImageUsage(vid, version, AccessCreate, role, c)
	n.graph.recordImageVersionCreator(version, n.ID, u.ID)
	return u.ID
}

// ReadImage declares a read of an existing image usage's version. It does
// not bump the version; the returned id is distinct from input but shares
// the same Virtual/Version.
func (n *Node) ReadImage(input ImageUsageID, role ImageRole, c ImageConstraint) ImageUsageID {
	src := n.graph.imageUsage(input)
	u := n.newImageUsage(src.Virtual, src.Version, AccessRead, role, c)
	n.graph.recordImageVersionRead(src.Version, u.ID)
	return u.ID
}

// ModifyImage declares a read-then-write of input, producing a new version
// of the same virtual image. Returns the usage id of the new version's
// write.
func (n *Node) ModifyImage(input ImageUsageID, role ImageRole, c ImageConstraint) ImageUsageID {
	src := n.graph.imageUsage(input)
	readU := n.newImageUsage(src.Virtual, src.Version, AccessModifyRead, role, c)
	n.graph.recordImageVersionRead(src.Version, readU.ID)

	nextVersion := ImageVersionID{Index: src.Virtual, Version: src.Version.Version + 1}
	writeU := n.newImageUsage(src.Virtual, nextVersion, AccessModifyWrite, role, c)
	n.graph.recordImageVersionCreator(nextVersion, n.ID, writeU.ID)
	return writeU.ID
}

// CopyImage declares a copy from input into a new version of the same
// virtual image (ImageRoleCopyDst on the output, ImageRoleCopySrc recorded
// against input).
func (n *Node) CopyImage(input ImageUsageID, c ImageConstraint) ImageUsageID {
	src := n.graph.imageUsage(input)
	readU := n.newImageUsage(src.Virtual, src.Version, AccessRead, ImageRoleCopySrc, c)
	n.graph.recordImageVersionRead(src.Version, readU.ID)

	nextVersion := ImageVersionID{Index: src.Virtual, Version: src.Version.Version + 1}
	writeU := n.newImageUsage(src.Virtual, nextVersion, AccessModifyWrite, ImageRoleCopyDst, c)
	n.graph.recordImageVersionCreator(nextVersion, n.ID, writeU.ID)
	return writeU.ID
}

// SetColorAttachment binds usage to color slot.
func (n *Node) SetColorAttachment(slot int, usage ImageUsageID, loadOp uint8, clear ColorClear) {
	n.ColorAttachments[slot] = &AttachmentBinding{Usage: usage, LoadOp: loadOp, ClearColor: clear}
}

// SetDepthAttachment binds usage as the depth/stencil attachment.
func (n *Node) SetDepthAttachment(usage ImageUsageID, loadOp uint8, clearDepth float32, clearStencil uint32) {
	n.DepthAttachment = &AttachmentBinding{Usage: usage, LoadOp: loadOp, ClearDepth: clearDepth, ClearStencil: clearStencil}
}

// SetResolveAttachment binds usage as the MSAA resolve target for slot.
func (n *Node) SetResolveAttachment(slot int, usage ImageUsageID) {
	n.ResolveAttachments[slot] = &AttachmentBinding{Usage: usage, LoadOp: LoadOpDontCare}
}

// CreateBuffer declares a brand new virtual buffer.
func (n *Node) CreateBuffer(name string, role BufferRole, c BufferConstraint) BufferUsageID {
	vid := n.graph.newVirtualBuffer(name)
	version := BufferVersionID{Index: vid, Version: 0}
	u := n.newBufferUsage(vid, version, AccessCreate, role, c)
	n.graph.recordBufferVersionCreator(version, n.ID, u.ID)
	return u.ID
}

// ReadBuffer declares a read of an existing buffer usage's version.
func (n *Node) ReadBuffer(input BufferUsageID, role BufferRole, c BufferConstraint) BufferUsageID {
	src := n.graph.bufferUsage(input)
	u := n.newBufferUsage(src.Virtual, src.Version, AccessRead, role, c)
	n.graph.recordBufferVersionRead(src.Version, u.ID)
	return u.ID
}

// ModifyBuffer declares a read-then-write of input, producing a new
// version.
func (n *Node) ModifyBuffer(input BufferUsageID, role BufferRole, c BufferConstraint) BufferUsageID {
	src := n.graph.bufferUsage(input)
	readU := n.newBufferUsage(src.Virtual, src.Version, AccessModifyRead, role, c)
	n.graph.recordBufferVersionRead(src.Version, readU.ID)

	nextVersion := BufferVersionID{Index: src.Virtual, Version: src.Version.Version + 1}
	writeU := n.newBufferUsage(src.Virtual, nextVersion, AccessModifyWrite, role, c)
	n.graph.recordBufferVersionCreator(nextVersion, n.ID, writeU.ID)
	return writeU.ID
}

// CopyBuffer declares a copy from input into a new version of the same
// virtual buffer.
func (n *Node) CopyBuffer(input BufferUsageID, c BufferConstraint) BufferUsageID {
	src := n.graph.bufferUsage(input)
	readU := n.newBufferUsage(src.Virtual, src.Version, AccessRead, BufferRoleCopySrc, c)
	n.graph.recordBufferVersionRead(src.Version, readU.ID)

	nextVersion := BufferVersionID{Index: src.Virtual, Version: src.Version.Version + 1}
	writeU := n.newBufferUsage(src.Virtual, nextVersion, AccessModifyWrite, BufferRoleCopyDst, c)
	n.graph.recordBufferVersionCreator(nextVersion, n.ID, writeU.ID)
	return writeU.ID
}
