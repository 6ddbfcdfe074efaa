// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package frame_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/gogpu/forge/frame"
	"github.com/gogpu/forge/graph"
)

type spriteData struct {
	Distance float32
	Visible  bool
}

type spriteFeature struct {
	beginCalls int
	endCalls   int
}

func (f *spriteFeature) Index() frame.RenderFeatureIndex { return 0 }

func (f *spriteFeature) BeginPerFrameExtract(p *frame.FramePacket[spriteData]) {
	f.beginCalls++
	p.SetPerFrameData("frame-begin")
}

func (f *spriteFeature) ExtractRenderObjectInstance(p *frame.FramePacket[spriteData], id frame.RenderObjectInstanceID) {
	p.InstanceData.Set(int(id), spriteData{Distance: float32(id)})
}

func (f *spriteFeature) ExtractRenderObjectInstancePerView(p *frame.FramePacket[spriteData], v *frame.ViewPacket[spriteData], id frame.RenderObjectInstanceID) {
	v.InstancePerViewData.Set(int(id), spriteData{Visible: true})
}

func (f *spriteFeature) EndPerViewExtract(p *frame.FramePacket[spriteData], v *frame.ViewPacket[spriteData]) {
	v.SetPerViewData("view-end")
}

func (f *spriteFeature) EndPerFrameExtract(p *frame.FramePacket[spriteData]) {
	f.endCalls++
}

type spritePreparer struct{}

func (spritePreparer) Prepare(p *frame.FramePacket[spriteData], v *frame.ViewPacket[spriteData]) ([]frame.SubmitNode[string], error) {
	var nodes []frame.SubmitNode[string]
	for i, inst := range v.RenderObjectInstances {
		perView, ok := v.InstancePerViewData.Get(i)
		if !ok || !perView.Visible {
			continue
		}
		instData, ok := p.InstanceData.Get(int(inst.Instance))
		if !ok {
			return nil, fmt.Errorf("instance %d has no data", inst.Instance)
		}
		nodes = append(nodes, frame.SubmitNode[string]{
			View:  v.View.Index,
			Phase: 0,
			Key:   frame.SortKey(instData.Distance * 1000),
			Data:  fmt.Sprintf("draw-%d", inst.Instance),
		})
	}
	return nodes, nil
}

type spriteWriter struct {
	written *[]string
}

func (w spriteWriter) Write(ctx *graph.PassContext, node frame.SubmitNode[string]) error {
	*w.written = append(*w.written, node.Data)
	return nil
}

func TestPipeline_ExtractPrepareWriteRunsInOrder(t *testing.T) {
	pool := frame.NewPool(4)
	defer pool.Close()

	feat := &spriteFeature{}
	var written []string
	runner := frame.NewFeatureRunner[spriteData, string](feat, spritePreparer{}, spriteWriter{&written})

	pipeline := frame.NewPipeline(pool)
	pipeline.Register(runner)

	instances := []frame.RenderObjectInstance{
		{Object: 1, RenderObject: 1},
		{Object: 2, RenderObject: 1},
	}
	pipeline.BeginFrame(map[frame.RenderFeatureIndex][]frame.RenderObjectInstance{0: instances})

	view := &frame.RenderView{Name: "main", Index: 0}
	viewInstances := []frame.RenderObjectInstancePerView{{Instance: 1}, {Instance: 0}}
	slot := pipeline.BeginView(view, []frame.ViewInstances{{Feature: 0, Instances: viewInstances}})
	pipeline.EndView(slot)
	pipeline.EndFrame()

	if feat.beginCalls != 1 {
		t.Errorf("beginCalls = %d, want 1", feat.beginCalls)
	}
	if feat.endCalls != 1 {
		t.Errorf("endCalls = %d, want 1", feat.endCalls)
	}

	if err := pipeline.Prepare(slot); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	ctx := &graph.PassContext{}
	if err := pipeline.Write(ctx, slot); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := []string{"draw-0", "draw-1"}
	if !reflect.DeepEqual(written, want) {
		t.Errorf("written = %v, want %v (ascending distance regardless of visibility scan order)", written, want)
	}
}

func TestPipeline_InstanceInvisibleToViewIsOmitted(t *testing.T) {
	pool := frame.NewPool(2)
	defer pool.Close()

	feat := &spriteFeature{}
	var written []string
	runner := frame.NewFeatureRunner[spriteData, string](feat, spritePreparer{}, spriteWriter{&written})

	pipeline := frame.NewPipeline(pool)
	pipeline.Register(runner)

	instances := []frame.RenderObjectInstance{{Object: 1, RenderObject: 1}}
	pipeline.BeginFrame(map[frame.RenderFeatureIndex][]frame.RenderObjectInstance{0: instances})

	view := &frame.RenderView{Name: "main", Index: 0}
	slot := pipeline.BeginView(view, nil)
	pipeline.EndView(slot)
	pipeline.EndFrame()

	if err := pipeline.Prepare(slot); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	ctx := &graph.PassContext{}
	if err := pipeline.Write(ctx, slot); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if len(written) != 0 {
		t.Errorf("written = %v, want none (no instances visible to this view)", written)
	}
}
