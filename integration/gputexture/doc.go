// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gputexture backs a fontstash atlas with a GPU texture.
//
// The stash keeps a single-channel atlas on the CPU. Renderer implements
// fontstash.Renderer and mirrors that atlas into a four channel texture
// created through gpucontext.TextureCreator. The data flow is:
//
//	Stash (glyph bitmaps) -> 8-bit atlas -> RGBA staging -> GPU texture
//
// # Usage
//
//	r, err := gputexture.NewForDrawer(dc, gputexture.Options{
//	    Draw: func(tex gpucontext.Texture, verts, tcoords []float32, colors []uint32) {
//	        batch.Add(tex, verts, tcoords, colors)
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	stash, err := fontstash.New(fontstash.Config{Width: 512, Height: 512, Renderer: r})
//
// # Uploads
//
// Only the dirty rectangle reported by the stash is converted. Textures that
// implement gpucontext.TextureRegionUpdater receive just that region; those
// that only implement gpucontext.TextureUpdater receive the whole staging
// buffer. Upload failures are logged through fontstash.Logger and kept for
// Renderer.Err.
//
// # Thread Safety
//
// Renderer is NOT safe for concurrent use. It is driven by the goroutine
// that owns the stash.
package gputexture
