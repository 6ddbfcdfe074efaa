// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package frame

// RenderFeatureIndex identifies a registered Feature within a Pipeline.
type RenderFeatureIndex int

// ObjectID identifies a scene/render object, assigned by whatever
// maintains the object set (outside this package's scope).
type ObjectID uint64

// RenderObjectID identifies the renderable representation of an object
// that a particular feature cares about (a mesh instance, a light, a
// decal). Distinct from ObjectID because one object can contribute
// render-object instances to more than one feature.
type RenderObjectID uint64

// ViewIndex identifies one of the views visibility was computed against
// this frame.
type ViewIndex int

// RenderObjectInstance is one object made visible to a feature this
// frame, independent of which views can see it.
type RenderObjectInstance struct {
	Object       ObjectID
	RenderObject RenderObjectID
}

// RenderObjectInstanceID indexes RenderObjectInstances within a
// FramePacket.
type RenderObjectInstanceID int

// RenderObjectInstancePerView is one render-object instance as seen from
// a particular view: a back-reference into the owning FramePacket plus
// whatever view-relative bookkeeping (distance, visibility mask) the
// caller attached when building the ViewPacket.
type RenderObjectInstancePerView struct {
	Instance RenderObjectInstanceID
}

// RenderView describes one of the views a frame is rendered from. Camera
// and frustum state live outside this package; RenderView carries only
// the identity a feature needs to key per-view data.
type RenderView struct {
	Name  string
	Index ViewIndex
}

// FeatureTypes bounds the type parameter every generic type in this
// package takes: a feature supplies its own concrete data bundle, with no
// further constraint than being a type at all. Named so the public
// signatures read as Feature[F FeatureTypes] per the data-kind contract
// this package generalizes from associated types to a type parameter.
type FeatureTypes interface {
	any
}

// FramePacket holds everything one feature extracted about the current
// frame: which render-object instances are visible, their per-instance
// data (filled in across a worker pool, one OnceCellArray slot per
// instance), the feature's single per-frame value, and the per-view
// packets extracted against each view.
type FramePacket[F FeatureTypes] struct {
	Feature               RenderFeatureIndex
	RenderObjectInstances []RenderObjectInstance
	InstanceData          *OnceCellArray[F]
	Views                 []*ViewPacket[F]

	perFrameData onceValue
}

// NewFramePacket allocates a packet for instances, with an unset
// InstanceData slot per instance.
func NewFramePacket[F FeatureTypes](feature RenderFeatureIndex, instances []RenderObjectInstance) *FramePacket[F] {
	return &FramePacket[F]{
		Feature:               feature,
		RenderObjectInstances: instances,
		InstanceData:          NewOnceCellArray[F](len(instances)),
	}
}

// SetPerFrameData stores the feature's single per-frame value. Only the
// first call (expected to be BeginPerFrameExtract's) wins; later calls
// report false and are ignored.
func (p *FramePacket[F]) SetPerFrameData(v any) bool {
	return p.perFrameData.Set(v)
}

// PerFrameData returns the value stored by SetPerFrameData, if any.
func (p *FramePacket[F]) PerFrameData() (any, bool) {
	return p.perFrameData.Get()
}

// AddView appends and returns a new ViewPacket for view, with an unset
// InstancePerViewData slot per entry in instances.
func (p *FramePacket[F]) AddView(view *RenderView, instances []RenderObjectInstancePerView) *ViewPacket[F] {
	vp := &ViewPacket[F]{
		View:                  view,
		RenderObjectInstances: instances,
		InstancePerViewData:   NewOnceCellArray[F](len(instances)),
	}
	p.Views = append(p.Views, vp)
	return vp
}

// ViewPacket holds one feature's per-view extraction results: which of
// the frame's render-object instances are visible from this view, their
// per-instance-per-view data, and the feature's single per-view value.
type ViewPacket[F FeatureTypes] struct {
	View                  *RenderView
	RenderObjectInstances []RenderObjectInstancePerView
	InstancePerViewData   *OnceCellArray[F]

	perViewData onceValue
}

// SetPerViewData stores the feature's single per-view value. Only the
// first call (expected to be EndPerViewExtract's) wins.
func (v *ViewPacket[F]) SetPerViewData(val any) bool {
	return v.perViewData.Set(val)
}

// PerViewData returns the value stored by SetPerViewData, if any.
func (v *ViewPacket[F]) PerViewData() (any, bool) {
	return v.perViewData.Get()
}
