package fontstash

import (
	"encoding/binary"
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/fontstash/atlas"
	"github.com/gogpu/fontstash/raster"
	"github.com/gogpu/fontstash/truetype"
)

// recorder is a Renderer that remembers every call.
type recorder struct {
	creates [][2]int
	resizes [][2]int
	updates []Rect
	verts   [][]float32
	tcoords [][]float32
	colors  [][]uint32

	createErr error
	resizeErr error
}

func (r *recorder) Create(w, h int) error {
	r.creates = append(r.creates, [2]int{w, h})
	return r.createErr
}

func (r *recorder) Resize(w, h int) error {
	r.resizes = append(r.resizes, [2]int{w, h})
	return r.resizeErr
}

func (r *recorder) Update(rect Rect, _ []byte) {
	r.updates = append(r.updates, rect)
}

func (r *recorder) Draw(verts, tcoords []float32, colors []uint32) {
	r.verts = append(r.verts, append([]float32(nil), verts...))
	r.tcoords = append(r.tcoords, append([]float32(nil), tcoords...))
	r.colors = append(r.colors, append([]uint32(nil), colors...))
}

func newStash(t *testing.T, cfg Config) (*Stash, int) {
	t.Helper()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	id, err := s.AddFont("sans", goregular.TTF, 0)
	if err != nil {
		t.Fatalf("AddFont() = %v", err)
	}
	return s, id
}

func advance(f *truetype.Font, r rune) int {
	adv, _ := f.CodepointHMetrics(r)
	return adv
}

// withoutCodepoint returns a copy of a TrueType font whose format 4 cmap no
// longer maps cp, by moving the start of its delta segment past cp.
func withoutCodepoint(t *testing.T, data []byte, cp rune) []byte {
	t.Helper()
	d := append([]byte(nil), data...)
	be := binary.BigEndian

	cmap := -1
	for i := range int(be.Uint16(d[4:])) {
		rec := 12 + 16*i
		if string(d[rec:rec+4]) == "cmap" {
			cmap = int(be.Uint32(d[rec+8:]))
		}
	}
	if cmap < 0 {
		t.Fatal("no cmap table")
	}

	patched := false
	for i := range int(be.Uint16(d[cmap+2:])) {
		sub := cmap + int(be.Uint32(d[cmap+4+8*i+4:]))
		if be.Uint16(d[sub:]) != 4 {
			continue
		}
		segX2 := int(be.Uint16(d[sub+6:]))
		ends := sub + 14
		starts := ends + segX2 + 2
		rangeOffs := starts + 2*segX2
		for seg := range segX2 / 2 {
			start := rune(be.Uint16(d[starts+2*seg:]))
			end := rune(be.Uint16(d[ends+2*seg:]))
			if cp >= start && cp < end && be.Uint16(d[rangeOffs+2*seg:]) == 0 {
				be.PutUint16(d[starts+2*seg:], uint16(cp+1))
				patched = true
			}
		}
	}
	if !patched {
		t.Fatalf("no cmap segment maps %q", cp)
	}
	return d
}

func TestNewWhiteRect(t *testing.T) {
	s, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	tex, w, h := s.TextureData()
	if w != 512 || h != 512 || len(tex) != w*h {
		t.Fatalf("TextureData = %d bytes, %dx%d", len(tex), w, h)
	}
	for _, i := range []int{0, 1, w, w + 1} {
		if tex[i] != 0xff {
			t.Errorf("white texel %d = %d, want 255", i, tex[i])
		}
	}
	if tex[2] != 0 || tex[2*w] != 0 {
		t.Error("white rect is larger than 2x2")
	}

	want := Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2}
	got, ok := s.ValidateTexture()
	if !ok || got != want {
		t.Errorf("ValidateTexture() = %v, %v, want %v, true", got, ok, want)
	}
	if _, ok := s.ValidateTexture(); ok {
		t.Error("second ValidateTexture() reported changes")
	}
	if r := s.DirtyRect(); !r.Empty() || !r.Rectangle().Empty() {
		t.Errorf("DirtyRect() = %v after validation, want empty", r)
	}
}

func TestNewErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	var cerr *ConfigError
	if _, err := New(cfg); !errors.As(err, &cerr) || cerr.Field != "Width" {
		t.Errorf("New(width 0) = %v, want ConfigError on Width", err)
	}

	boom := errors.New("boom")
	cfg = DefaultConfig()
	cfg.Renderer = &recorder{createErr: boom}
	if _, err := New(cfg); !errors.Is(err, boom) {
		t.Errorf("New() with failing renderer = %v, want %v", err, boom)
	}
}

func TestNewCreatesTexture(t *testing.T) {
	rec := &recorder{}
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 256, 128
	cfg.Renderer = rec
	if _, err := New(cfg); err != nil {
		t.Fatal(err)
	}
	if len(rec.creates) != 1 || rec.creates[0] != [2]int{256, 128} {
		t.Errorf("Create calls = %v, want [[256 128]]", rec.creates)
	}
}

func TestAddFont(t *testing.T) {
	s, id := newStash(t, DefaultConfig())
	if id != 0 || s.NumFonts() != 1 {
		t.Errorf("id = %d, NumFonts = %d, want 0, 1", id, s.NumFonts())
	}
	if got, ok := s.FontByName("sans"); !ok || got != id {
		t.Errorf("FontByName(sans) = %d, %v, want %d, true", got, ok, id)
	}
	if _, ok := s.FontByName("serif"); ok {
		t.Error("FontByName(serif) found a font")
	}
	info, err := s.FontInfo(id)
	if err != nil || info.NumGlyphs() == 0 {
		t.Errorf("FontInfo() = %v, %v", info, err)
	}
	if _, err := s.FontInfo(3); !errors.Is(err, ErrInvalidFont) {
		t.Errorf("FontInfo(3) error = %v, want %v", err, ErrInvalidFont)
	}
	if _, err := s.AddFont("junk", []byte("nope"), 0); err == nil {
		t.Error("AddFont(junk) = nil error")
	}
	if s.NumFonts() != 1 {
		t.Errorf("NumFonts after failed add = %d, want 1", s.NumFonts())
	}
}

func TestGlyphErrors(t *testing.T) {
	s, id := newStash(t, DefaultConfig())
	if _, err := s.Glyph(id, 'A', 1, 0, BitmapRequired); !errors.Is(err, ErrSizeTooSmall) {
		t.Errorf("isize 1 error = %v, want %v", err, ErrSizeTooSmall)
	}
	if _, err := s.Glyph(7, 'A', 120, 0, BitmapRequired); !errors.Is(err, ErrInvalidFont) {
		t.Errorf("font 7 error = %v, want %v", err, ErrInvalidFont)
	}
}

func TestGlyphCached(t *testing.T) {
	s, id := newStash(t, DefaultConfig())
	a, err := s.Glyph(id, 'A', 240, 0, BitmapRequired)
	if err != nil {
		t.Fatal(err)
	}
	if !a.HasBitmap() {
		t.Fatal("required glyph has no bitmap")
	}
	if !s.DirtyRect().Rectangle().Overlaps(Rect{a.X0, a.Y0, a.X1, a.Y1}.Rectangle()) {
		t.Errorf("dirty rect %v does not cover glyph", s.DirtyRect())
	}
	s.ValidateTexture()

	b, err := s.Glyph(id, 'A', 240, 0, BitmapRequired)
	if err != nil {
		t.Fatal(err)
	}
	if *a != *b {
		t.Errorf("second lookup = %+v, want %+v", *b, *a)
	}
	if r := s.DirtyRect(); !r.Empty() {
		t.Errorf("cached lookup dirtied %v", r)
	}
}

func TestGlyphCacheKeys(t *testing.T) {
	s, id := newStash(t, DefaultConfig())
	keys := []struct{ isize, iblur int }{
		{120, 0}, {180, 0}, {240, 0}, {240, 5}, {240, 20}, {360, 0},
	}
	want := make([]Glyph, len(keys))
	for i, k := range keys {
		g, err := s.Glyph(id, 'A', k.isize, k.iblur, BitmapRequired)
		if err != nil {
			t.Fatalf("Glyph(%d, %d): %v", k.isize, k.iblur, err)
		}
		want[i] = *g
	}
	for i, k := range keys {
		g, err := s.Glyph(id, 'A', k.isize, k.iblur, BitmapRequired)
		if err != nil {
			t.Fatal(err)
		}
		if *g != want[i] {
			t.Errorf("Glyph(%d, %d) = %+v, want %+v", k.isize, k.iblur, *g, want[i])
		}
		if g.Size != k.isize || g.Blur != k.iblur {
			t.Errorf("Glyph(%d, %d) key = (%d, %d)", k.isize, k.iblur, g.Size, g.Blur)
		}
	}
	if got := len(s.fonts[id].glyphs); got != len(keys) {
		t.Errorf("cached glyphs = %d, want %d", got, len(keys))
	}

	seen := map[int]bool{}
	for _, k := range keys {
		seen[lutIndex('A', k.isize, k.iblur)] = true
	}
	if len(seen) != len(keys) {
		t.Errorf("%d sizes of one codepoint share %d buckets, want %d", len(keys), len(seen), len(keys))
	}
}

func TestGlyphOptionalThenRequired(t *testing.T) {
	s, id := newStash(t, DefaultConfig())
	s.ValidateTexture()

	opt, err := s.Glyph(id, 'g', 180, 0, BitmapOptional)
	if err != nil {
		t.Fatal(err)
	}
	if opt.HasBitmap() || opt.X0 != -1 || opt.Y0 != -1 {
		t.Errorf("optional glyph at (%d,%d), want (-1,-1)", opt.X0, opt.Y0)
	}
	if r := s.DirtyRect(); !r.Empty() {
		t.Errorf("optional lookup dirtied %v", r)
	}

	req, err := s.Glyph(id, 'g', 180, 0, BitmapRequired)
	if err != nil {
		t.Fatal(err)
	}
	if !req.HasBitmap() {
		t.Fatal("required glyph has no bitmap")
	}
	if req.XAdvance != opt.XAdvance || req.XOff != opt.XOff || req.YOff != opt.YOff {
		t.Errorf("metrics changed: optional %+v, required %+v", *opt, *req)
	}
	if req.X1-req.X0 != opt.X1-opt.X0 {
		t.Errorf("width %d, want %d", req.X1-req.X0, opt.X1-opt.X0)
	}

	again, _ := s.Glyph(id, 'g', 180, 0, BitmapOptional)
	if *again != *req {
		t.Errorf("optional lookup after rasterizing = %+v, want %+v", *again, *req)
	}
}

func TestGlyphBitmapMatchesRaster(t *testing.T) {
	s, id := newStash(t, DefaultConfig())
	info, _ := s.FontInfo(id)
	scale := info.ScaleForEMToPixels(24)

	for _, r := range []rune{'g', 'W', '@'} {
		g, err := s.Glyph(id, r, 240, 0, BitmapRequired)
		if err != nil {
			t.Fatal(err)
		}
		img, xoff, yoff := raster.CodepointBitmap(info, scale, scale, 0, 0, r)
		const pad = 2
		if g.XOff != xoff-pad || g.YOff != yoff-pad {
			t.Errorf("%q: offset (%d,%d), want (%d,%d)", r, g.XOff, g.YOff, xoff-pad, yoff-pad)
		}
		if g.X1-g.X0 != img.Rect.Dx()+2*pad || g.Y1-g.Y0 != img.Rect.Dy()+2*pad {
			t.Fatalf("%q: atlas rect %dx%d, bitmap %v", r, g.X1-g.X0, g.Y1-g.Y0, img.Rect)
		}
		if want := int(scale * float32(advance(info, r)) * 10); g.XAdvance != want {
			t.Errorf("%q: XAdvance = %d, want %d", r, g.XAdvance, want)
		}

		tex, w, _ := s.TextureData()
		for y := range img.Rect.Dy() {
			for x := range img.Rect.Dx() {
				got := tex[(g.X0+pad+x)+(g.Y0+pad+y)*w]
				if want := img.Pix[y*img.Stride+x]; got != want {
					t.Fatalf("%q: texel (%d,%d) = %d, want %d", r, x, y, got, want)
				}
			}
		}
	}
}

func TestGlyphBlur(t *testing.T) {
	s, id := newStash(t, DefaultConfig())
	info, _ := s.FontInfo(id)
	scale := info.ScaleForEMToPixels(24)
	box := info.CodepointBitmapBox('o', scale, scale, 0, 0)

	g, err := s.Glyph(id, 'o', 240, 4, BitmapRequired)
	if err != nil {
		t.Fatal(err)
	}
	if g.Blur != 4 {
		t.Errorf("Blur = %d, want 4", g.Blur)
	}
	const pad = 6
	if g.X1-g.X0 != box.Dx()+2*pad || g.XOff != box.Min.X-pad {
		t.Errorf("blurred rect %dx%d off %d, want %dx? off %d",
			g.X1-g.X0, g.Y1-g.Y0, g.XOff, box.Dx()+2*pad, box.Min.X-pad)
	}

	tex, w, _ := s.TextureData()
	var total int
	for y := g.Y0; y < g.Y1; y++ {
		for x := g.X0; x < g.X1; x++ {
			v := tex[x+y*w]
			total += int(v)
			if (x == g.X0 || x == g.X1-1 || y == g.Y0 || y == g.Y1-1) && v != 0 {
				t.Errorf("border texel (%d,%d) = %d, want 0", x, y, v)
			}
		}
	}
	if total == 0 {
		t.Error("blurred glyph is blank")
	}

	clamped, err := s.Glyph(id, 'o', 240, 50, BitmapOptional)
	if err != nil {
		t.Fatal(err)
	}
	if clamped.Blur != maxBlur {
		t.Errorf("Blur = %d, want %d", clamped.Blur, maxBlur)
	}
}

func TestGlyphAtlasFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 16, 16
	s, id := newStash(t, cfg)

	if _, err := s.Glyph(id, 'W', 400, 0, BitmapRequired); !errors.Is(err, ErrAtlasFull) {
		t.Errorf("Glyph(W) error = %v, want %v", err, ErrAtlasFull)
	}
	// metrics do not need atlas space
	if _, err := s.Glyph(id, 'W', 400, 0, BitmapOptional); err != nil {
		t.Errorf("optional Glyph(W) = %v", err)
	}
}

func TestOnAtlasFull(t *testing.T) {
	calls := 0
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 16, 16
	cfg.OnAtlasFull = func(s *Stash) error {
		calls++
		return s.ExpandAtlas(256, 256)
	}
	s, id := newStash(t, cfg)

	g, err := s.Glyph(id, 'W', 400, 0, BitmapRequired)
	if err != nil {
		t.Fatalf("Glyph(W) = %v", err)
	}
	if calls != 1 {
		t.Errorf("OnAtlasFull called %d times, want 1", calls)
	}
	if w, h := s.AtlasSize(); w != 256 || h != 256 {
		t.Errorf("AtlasSize() = %dx%d, want 256x256", w, h)
	}
	if !g.HasBitmap() || g.X1 > 256 || g.Y1 > 256 {
		t.Errorf("glyph rect (%d,%d)-(%d,%d)", g.X0, g.Y0, g.X1, g.Y1)
	}

	boom := errors.New("boom")
	cfg.OnAtlasFull = func(*Stash) error { return boom }
	s, id = newStash(t, cfg)
	if _, err := s.Glyph(id, 'W', 400, 0, BitmapRequired); !errors.Is(err, boom) {
		t.Errorf("Glyph(W) with failing handler = %v, want %v", err, boom)
	}

	cfg.OnAtlasFull = func(*Stash) error { return nil }
	s, id = newStash(t, cfg)
	if _, err := s.Glyph(id, 'W', 400, 0, BitmapRequired); !errors.Is(err, ErrAtlasFull) {
		t.Errorf("Glyph(W) with no-op handler = %v, want %v", err, ErrAtlasFull)
	}
}

func TestOnAtlasFullReset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 64, 64
	cfg.OnAtlasFull = func(s *Stash) error { return s.ResetAtlas(64, 64) }
	s, id := newStash(t, cfg)

	// fill the atlas, then keep going; every reset starts over
	for _, r := range "ABCDEFGHIJKLMNOPQRSTUVWXYZ" {
		if _, err := s.Glyph(id, r, 300, 0, BitmapRequired); err != nil {
			t.Fatalf("Glyph(%q) = %v", r, err)
		}
	}
	g, err := s.Glyph(id, 'Z', 300, 0, BitmapRequired)
	if err != nil || !g.HasBitmap() {
		t.Errorf("last glyph = %+v, %v", g, err)
	}
}

func TestExpandAtlasKeepsTexels(t *testing.T) {
	rec := &recorder{}
	cfg := DefaultConfig()
	cfg.Renderer = rec
	s, id := newStash(t, cfg)

	g, err := s.Glyph(id, 'A', 300, 0, BitmapRequired)
	if err != nil {
		t.Fatal(err)
	}
	old, oldW, _ := s.TextureData()
	snapshot := make([]byte, 0, (g.X1-g.X0)*(g.Y1-g.Y0))
	for y := g.Y0; y < g.Y1; y++ {
		snapshot = append(snapshot, old[g.X0+y*oldW:g.X1+y*oldW]...)
	}

	if err := s.ExpandAtlas(1024, 768); err != nil {
		t.Fatal(err)
	}
	if len(rec.resizes) != 1 || rec.resizes[0] != [2]int{1024, 768} {
		t.Errorf("Resize calls = %v", rec.resizes)
	}
	if len(rec.updates) != 1 {
		t.Errorf("pending texels were not flushed before resizing: %v", rec.updates)
	}

	tex, w, h := s.TextureData()
	if w != 1024 || h != 768 || len(tex) != w*h {
		t.Fatalf("TextureData = %d bytes, %dx%d", len(tex), w, h)
	}
	i := 0
	for y := g.Y0; y < g.Y1; y++ {
		for x := g.X0; x < g.X1; x++ {
			if tex[x+y*w] != snapshot[i] {
				t.Fatalf("texel (%d,%d) = %d, want %d", x, y, tex[x+y*w], snapshot[i])
			}
			i++
		}
	}

	want := Rect{MinX: 0, MinY: 0, MaxX: 512, MaxY: max(g.Y1, 2)}
	if got := s.DirtyRect(); got != want {
		t.Errorf("DirtyRect() = %v, want %v", got, want)
	}

	s.ValidateTexture()
	again, _ := s.Glyph(id, 'A', 300, 0, BitmapRequired)
	if again.X0 != g.X0 || again.Y0 != g.Y0 {
		t.Errorf("glyph moved to (%d,%d)", again.X0, again.Y0)
	}
	if r := s.DirtyRect(); !r.Empty() {
		t.Errorf("cached glyph dirtied %v", r)
	}

	if err := s.ExpandAtlas(100, 100); err != nil {
		t.Errorf("ExpandAtlas(smaller) = %v", err)
	}
	if w, h := s.AtlasSize(); w != 1024 || h != 768 {
		t.Errorf("ExpandAtlas(smaller) changed size to %dx%d", w, h)
	}
	if len(rec.resizes) != 1 {
		t.Errorf("no-op expand resized the texture")
	}
}

func TestExpandAtlasResizeError(t *testing.T) {
	boom := errors.New("boom")
	cfg := DefaultConfig()
	cfg.Renderer = &recorder{resizeErr: boom}
	s, _ := newStash(t, cfg)

	err := s.ExpandAtlas(1024, 1024)
	if !errors.Is(err, ErrRendererResize) || !errors.Is(err, boom) {
		t.Errorf("ExpandAtlas() = %v, want %v and %v", err, ErrRendererResize, boom)
	}
	if w, h := s.AtlasSize(); w != 512 || h != 512 {
		t.Errorf("failed expand changed size to %dx%d", w, h)
	}
	if err := s.ResetAtlas(256, 256); !errors.Is(err, ErrRendererResize) {
		t.Errorf("ResetAtlas() = %v, want %v", err, ErrRendererResize)
	}
}

func TestResetAtlas(t *testing.T) {
	s, id := newStash(t, DefaultConfig())
	if _, err := s.Glyph(id, 'A', 300, 0, BitmapRequired); err != nil {
		t.Fatal(err)
	}

	if err := s.ResetAtlas(256, 128); err != nil {
		t.Fatal(err)
	}
	if w, h := s.AtlasSize(); w != 256 || h != 128 {
		t.Errorf("AtlasSize() = %dx%d, want 256x128", w, h)
	}
	if got, want := s.DirtyRect(), (Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2}); got != want {
		t.Errorf("DirtyRect() = %v, want %v", got, want)
	}
	tex, _, _ := s.TextureData()
	var n int
	for _, v := range tex {
		if v != 0 {
			n++
		}
	}
	if n != 4 {
		t.Errorf("%d texels set after reset, want the 4 white ones", n)
	}

	g, err := s.Glyph(id, 'A', 300, 0, BitmapOptional)
	if err != nil {
		t.Fatal(err)
	}
	if g.HasBitmap() {
		t.Error("glyph cache survived ResetAtlas")
	}

	if err := s.ResetAtlas(0, 64); !errors.Is(err, atlas.ErrInvalidSize) {
		t.Errorf("ResetAtlas(0, 64) = %v, want %v", err, atlas.ErrInvalidSize)
	}
}

func TestFallback(t *testing.T) {
	s, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	base, err := s.AddFont("noA", withoutCodepoint(t, goregular.TTF, 'A'), 0)
	if err != nil {
		t.Fatal(err)
	}
	fb, err := s.AddFont("sans", goregular.TTF, 0)
	if err != nil {
		t.Fatal(err)
	}
	baseInfo, _ := s.FontInfo(base)
	fbInfo, _ := s.FontInfo(fb)
	if baseInfo.FindGlyphIndex('A') != 0 || baseInfo.FindGlyphIndex('B') == 0 {
		t.Fatal("cmap patch did not remove exactly the expected codepoints")
	}

	if err := s.AddFallback(base, fb); err != nil {
		t.Fatal(err)
	}
	g, err := s.Glyph(base, 'A', 200, 0, BitmapRequired)
	if err != nil {
		t.Fatal(err)
	}
	if want := fbInfo.FindGlyphIndex('A'); g.Index != want {
		t.Errorf("fallback glyph index = %d, want %d", g.Index, want)
	}
	direct, _ := s.Glyph(fb, 'A', 200, 0, BitmapOptional)
	if g.XAdvance != direct.XAdvance {
		t.Errorf("fallback advance = %d, want %d", g.XAdvance, direct.XAdvance)
	}

	if err := s.ResetFallback(base); err != nil {
		t.Fatal(err)
	}
	g, err = s.Glyph(base, 'A', 200, 0, BitmapOptional)
	if err != nil {
		t.Fatal(err)
	}
	if g.Index != 0 {
		t.Errorf("glyph index after ResetFallback = %d, want 0", g.Index)
	}
}

func TestAddFallbackLimit(t *testing.T) {
	s, id := newStash(t, DefaultConfig())
	for i := range maxFallbacks {
		if err := s.AddFallback(id, id); err != nil {
			t.Fatalf("AddFallback #%d = %v", i, err)
		}
	}
	if err := s.AddFallback(id, id); !errors.Is(err, ErrTooManyFallbacks) {
		t.Errorf("AddFallback over the limit = %v, want %v", err, ErrTooManyFallbacks)
	}
	if err := s.AddFallback(id, 5); !errors.Is(err, ErrInvalidFont) {
		t.Errorf("AddFallback(unknown) = %v, want %v", err, ErrInvalidFont)
	}
	if err := s.ResetFallback(9); !errors.Is(err, ErrInvalidFont) {
		t.Errorf("ResetFallback(unknown) = %v, want %v", err, ErrInvalidFont)
	}
}
