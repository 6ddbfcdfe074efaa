// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package graph

import (
	"fmt"

	"github.com/gogpu/forge/hal"
)

// imageVersionInfo tracks the creator and readers of one version of a
// virtual image, mirroring the bookkeeping graph_image.rs keeps per version
// so liveness and constraint propagation can walk it.
type imageVersionInfo struct {
	creatorNode NodeID
	createUsage ImageUsageID
	readUsages  []ImageUsageID
}

type imageResource struct {
	name     string
	versions []imageVersionInfo
}

type bufferVersionInfo struct {
	creatorNode NodeID
	createUsage BufferUsageID
	readUsages  []BufferUsageID
}

type bufferResource struct {
	name     string
	versions []bufferVersionInfo
}

// OutputImage pins a virtual image's final version to an externally
// supplied physical image, preventing it from being aliased and declaring
// the state it must be left in after the graph executes.
type OutputImage struct {
	Usage      ImageUsageID
	Image      hal.Image
	View       hal.ImageView
	FinalState hal.ResourceState
}

// OutputBuffer is the buffer analogue of OutputImage.
type OutputBuffer struct {
	Usage      BufferUsageID
	Buffer     hal.Buffer
	FinalState hal.ResourceState
}

// Graph accumulates nodes and their image/buffer declarations for one
// frame. Call Compile to produce a Plan.
type Graph struct {
	nodes []*Node

	images  []*imageResource
	buffers []*bufferResource

	imageUsages  []*ImageUsage
	bufferUsages []*BufferUsage

	outputImages  []OutputImage
	outputBuffers []OutputBuffer

	nextImageUsage  int
	nextBufferUsage int
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{}
}

func (g *Graph) nextImageUsageID() ImageUsageID {
	id := ImageUsageID(g.nextImageUsage)
	g.nextImageUsage++
	return id
}

func (g *Graph) nextBufferUsageID() BufferUsageID {
	id := BufferUsageID(g.nextBufferUsage)
	g.nextBufferUsage++
	return id
}

func (g *Graph) newVirtualImage(name string) VirtualImageID {
	id := VirtualImageID(len(g.images))
	g.images = append(g.images, &imageResource{name: name})
	return id
}

func (g *Graph) newVirtualBuffer(name string) VirtualBufferID {
	id := VirtualBufferID(len(g.buffers))
	g.buffers = append(g.buffers, &bufferResource{name: name})
	return id
}

func (g *Graph) recordImageVersionCreator(v ImageVersionID, node NodeID, usage ImageUsageID) {
	img := g.images[v.Index]
	for len(img.versions) <= v.Version {
		img.versions = append(img.versions, imageVersionInfo{})
	}
	img.versions[v.Version] = imageVersionInfo{creatorNode: node, createUsage: usage}
}

func (g *Graph) recordImageVersionRead(v ImageVersionID, usage ImageUsageID) {
	img := g.images[v.Index]
	img.versions[v.Version].readUsages = append(img.versions[v.Version].readUsages, usage)
}

func (g *Graph) recordBufferVersionCreator(v BufferVersionID, node NodeID, usage BufferUsageID) {
	buf := g.buffers[v.Index]
	for len(buf.versions) <= v.Version {
		buf.versions = append(buf.versions, bufferVersionInfo{})
	}
	buf.versions[v.Version] = bufferVersionInfo{creatorNode: node, createUsage: usage}
}

func (g *Graph) recordBufferVersionRead(v BufferVersionID, usage BufferUsageID) {
	buf := g.buffers[v.Index]
	buf.versions[v.Version].readUsages = append(buf.versions[v.Version].readUsages, usage)
}

func (g *Graph) imageUsage(id ImageUsageID) *ImageUsage  { return g.imageUsages[id] }
func (g *Graph) bufferUsage(id BufferUsageID) *BufferUsage { return g.bufferUsages[id] }

// AddNode declares a new pass named name, running on queue.
func (g *Graph) AddNode(name string, queue hal.QueueType) *Node {
	n := &Node{
		ID:          NodeID(len(g.nodes)),
		Name:        name,
		Queue:       queue,
		CanBeCulled: true,
		graph:       g,
	}
	g.nodes = append(g.nodes, n)
	return n
}

// SetOutputImage marks usage as live past graph execution, bound to image
// (and, for attachment usages, view). The image is pinned to its own
// physical slot and is never aliased with another virtual image.
func (g *Graph) SetOutputImage(usage ImageUsageID, image hal.Image, view hal.ImageView, finalState hal.ResourceState) {
	g.outputImages = append(g.outputImages, OutputImage{Usage: usage, Image: image, View: view, FinalState: finalState})
}

// SetOutputBuffer marks usage as live past graph execution, bound to buf.
func (g *Graph) SetOutputBuffer(usage BufferUsageID, buf hal.Buffer, finalState hal.ResourceState) {
	g.outputBuffers = append(g.outputBuffers, OutputBuffer{Usage: usage, Buffer: buf, FinalState: finalState})
}

// BuildError reports a constraint conflict or missing-producer failure
// detected while compiling the graph, naming the offending nodes/resources
// per the build-failure contract.
type BuildError struct {
	Reason string
}

func (e *BuildError) Error() string { return fmt.Sprintf("graph build failed: %s", e.Reason) }
