// Package fontstash renders text from TrueType and OpenType fonts through a
// shared glyph atlas.
//
// # Overview
//
// A [Stash] owns one single-channel texture. Glyphs are rasterized into it
// on first use, keyed by codepoint, size and blur, and stay there until the
// atlas is reset. Text is turned into textured quads that a [Renderer]
// draws, or measured without touching the atlas.
//
// # Quick Start
//
//	s, err := fontstash.New(fontstash.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sans, err := s.AddFont("sans", goregular.TTF, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s.SetFont(sans)
//	s.SetSize(24)
//	s.DrawText(10, 40, "Hello, world")
//
// # Architecture
//
// The package is built from smaller ones:
//   - truetype: font parsing, metrics, kerning and outlines
//   - raster: curve flattening and antialiased coverage
//   - sdf: signed distance fields
//   - atlas: skyline rectangle packing
//
// # Coordinate System
//
// With [OriginTopLeft] y grows down and a positive ascender moves the quads
// up from the baseline. [OriginBottomLeft] flips y for APIs whose origin is
// at the bottom.
//
// # Atlas Growth
//
// When a glyph does not fit, lookups that need a bitmap fail with
// [ErrAtlasFull]. Call [Stash.ExpandAtlas] to grow the texture in place or
// [Stash.ResetAtlas] to start over, or set [Config.OnAtlasFull] to do either
// automatically.
//
// # GPU Textures
//
// integration/gputexture implements [Renderer] on gpucontext textures. It
// mirrors the atlas into an RGBA texture and uploads only the dirty region.
package fontstash
