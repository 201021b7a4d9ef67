// Package controller ties a skeleton instance, its animation state and
// the render pipeline together behind one update loop. Hosts that do
// not need fine-grained control over the individual pieces drive a
// Controller and consume its renderables.
package controller

import (
	"github.com/marrowkit/marrow/pkg/animation"
	"github.com/marrowkit/marrow/pkg/render"
	"github.com/marrowkit/marrow/pkg/skeleton"
)

// Settings configures the render pass of a controller.
type Settings struct {
	PremultipliedAlpha bool
	CullDirection      render.CullDirection
}

// Controller owns a skeleton and an animation state and keeps them in
// sync: Update advances the mixer, applies the pose and recomputes
// world transforms in one call.
type Controller struct {
	Skeleton *skeleton.Skeleton
	State    *animation.State
	Settings Settings

	clipper  render.Clipper
	renderer render.Renderer
}

// New instantiates a skeleton from data, puts it in the setup pose and
// computes its initial world transforms.
func New(data *skeleton.Data, stateData *animation.StateData) *Controller {
	skel := skeleton.New(data)
	skel.SetToSetupPose()
	skel.UpdateWorldTransform()
	return &Controller{
		Skeleton: skel,
		State:    animation.NewState(stateData),
	}
}

// Update advances the animation state by delta seconds, applies the
// resulting pose and recomputes world transforms. Bones are reset to
// the setup pose first so values from the previous frame never leak
// into unkeyed properties.
func (c *Controller) Update(delta float32) {
	c.State.Update(delta)
	c.Skeleton.SetBonesToSetupPose()
	c.State.Apply(c.Skeleton)
	c.Skeleton.UpdateWorldTransform()
}

// Renderables flattens the current pose into draw batches. The slices
// inside each Renderable are owned by the caller; the controller's
// internal clip buffers are reused across calls.
func (c *Controller) Renderables() []render.Renderable {
	c.renderer.PremultipliedAlpha = c.Settings.PremultipliedAlpha
	c.renderer.CullDirection = c.Settings.CullDirection
	return c.renderer.Render(c.Skeleton, &c.clipper)
}
