// Package engine owns the document-wide bookkeeping every other package
// writes through: a monotone object-reference counter, content-addressed
// deduplication for cacheable objects (images, ICC profiles, functions),
// resource registration, validation-error collection, and the final
// assembly of the xref/trailer. Grounded on writer/object_builder.go and
// writer/writer_impl.go, generalized from a single-pass "walk the finished
// ir.Document" writer into an incrementally-fed context that the surface
// and content builders register objects into as a document is built.
package engine

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/grainpress/sealpdf/cmm"
	"github.com/grainpress/sealpdf/compliance"
	"github.com/grainpress/sealpdf/observability"
	"github.com/grainpress/sealpdf/raw"
)

// SerializeContext is the per-document object registry. One is created per
// Document and threaded through every Surface/Builder it owns.
type SerializeContext struct {
	nextNum int
	objects map[int]raw.Object

	cacheable map[string]raw.ObjectRef // sha256 hex -> already-registered ref

	colorSpaces map[string]raw.ObjectRef // cache key -> ref, dedups ICC-backed color spaces

	fontAnalyzer fontUsageRecorder

	validator compliance.Validator
	errors    []compliance.Violation
	location  string // scoped "where are we drawing" token, spec §9

	noDeviceCS bool

	logger observability.Logger
	tracer observability.Tracer
}

// fontUsageRecorder is the subset of fonts.Analyzer's interface engine
// needs, kept as a local interface so engine doesn't import fonts (fonts
// doesn't need to import engine either; the root package's New wires the
// two together).
type fontUsageRecorder interface {
	RecordGlyph(key int, cid int)
}

func NewSerializeContext(validator compliance.Validator, noDeviceCS bool) *SerializeContext {
	return &SerializeContext{
		nextNum:     1,
		objects:     make(map[int]raw.Object),
		cacheable:   make(map[string]raw.ObjectRef),
		colorSpaces: make(map[string]raw.ObjectRef),
		validator:   validator,
		noDeviceCS:  noDeviceCS,
		logger:      observability.NopLogger{},
		tracer:      observability.NopTracer(),
	}
}

// SetLogger/SetTracer wire in the document's configured observability
// backends (Settings.Logger/Settings.Tracer); a SerializeContext never
// observes a nil Logger or Tracer, defaulting to the Nop implementations.
func (c *SerializeContext) SetLogger(l observability.Logger) {
	if l != nil {
		c.logger = l
	}
}
func (c *SerializeContext) SetTracer(t observability.Tracer) {
	if t != nil {
		c.tracer = t
	}
}

// Logger returns the active logger, grounded on writer/writer_impl.go's
// loggerFromConfig default-to-Nop convention.
func (c *SerializeContext) Logger() observability.Logger { return c.logger }

// Tracer returns the active tracer.
func (c *SerializeContext) Tracer() observability.Tracer { return c.tracer }

// NewRef allocates the next free indirect object number without storing an
// object yet; used when an object must be referenced before it's built
// (e.g. a page referencing its not-yet-closed parent).
func (c *SerializeContext) NewRef() raw.ObjectRef {
	num := c.nextNum
	c.nextNum++
	return raw.ObjectRef{Num: num}
}

// AddObject stores obj under a freshly allocated reference.
func (c *SerializeContext) AddObject(obj raw.Object) raw.ObjectRef {
	ref := c.NewRef()
	c.objects[ref.Num] = obj
	return ref
}

// SetObject stores obj under a reference obtained earlier from NewRef.
func (c *SerializeContext) SetObject(ref raw.ObjectRef, obj raw.Object) {
	c.objects[ref.Num] = obj
}

// Object returns the object currently stored at ref, if any.
func (c *SerializeContext) Object(ref raw.ObjectRef) (raw.Object, bool) {
	o, ok := c.objects[ref.Num]
	return o, ok
}

// Objects returns every (ref, object) pair registered so far, for the
// ChunkContainer's final xref pass.
func (c *SerializeContext) Objects() map[int]raw.Object { return c.objects }

// RegisterCacheable deduplicates a content-addressed object: build is
// called only the first time key is seen, and every subsequent call with an
// equal key returns the same ref. Grounded on optimize/hash.go's
// canonical-then-hash dedup technique, applied at register time instead of
// scanning a finished object graph after the fact.
func (c *SerializeContext) RegisterCacheable(key []byte, build func() raw.Object) raw.ObjectRef {
	sum := sha256.Sum256(key)
	hash := hex.EncodeToString(sum[:])
	if ref, ok := c.cacheable[hash]; ok {
		return ref
	}
	ref := c.AddObject(build())
	c.cacheable[hash] = ref
	return ref
}

// RegisterColorSpace registers an ICC-backed color space, deduplicating by
// profile bytes so the same embedded profile is never written twice. When
// NoDeviceCS is set, device color spaces must also be routed through an
// ICC-backed equivalent rather than emitted as a bare /DeviceRGB etc. name
// — callers check NoDeviceCS() before deciding which path to take.
func (c *SerializeContext) RegisterColorSpace(profile *cmm.Profile) raw.ObjectRef {
	key := hex.EncodeToString(sha256.Sum256(profile.CacheKey())[:])
	if ref, ok := c.colorSpaces[key]; ok {
		return ref
	}
	streamDict := raw.NewDict()
	streamDict.Set("N", raw.Int(int64(profile.N)))
	streamDict.Set("Alternate", raw.NameOf(string(profile.Alternate)))
	stream := raw.NewStream(streamDict, profile.Data)
	streamRef := c.AddObject(stream)
	c.colorSpaces[key] = streamRef
	return streamRef
}

// NoDeviceCS reports whether the document was configured to forbid bare
// device color spaces (spec §6's NoDeviceCS setting).
func (c *SerializeContext) NoDeviceCS() bool { return c.noDeviceCS }

// SetFontUsageRecorder wires in the fonts.Analyzer the root package's New
// constructs at document setup time, so RegisterFontGlyph can route into it without an
// import cycle.
func (c *SerializeContext) SetFontUsageRecorder(r fontUsageRecorder) { c.fontAnalyzer = r }

// RegisterFontGlyph records that a CID was drawn under a font, for the
// subsetting pass to consume at Finish time.
func (c *SerializeContext) RegisterFontGlyph(fontKey int, cid int) {
	if c.fontAnalyzer != nil {
		c.fontAnalyzer.RecordGlyph(fontKey, cid)
	}
}

// PushLocation sets the scoped "what are we currently drawing" token spec
// §9 requires validation errors to carry, returning a function that clears
// it — callers defer the returned func around one drawing call.
func (c *SerializeContext) PushLocation(loc string) func() {
	prev := c.location
	c.location = loc
	return func() { c.location = prev }
}

// RegisterValidationError records a compliance violation if the active
// validator gates on this violation's code, tagging it with the current
// location token.
func (c *SerializeContext) RegisterValidationError(v compliance.Violation) {
	if c.validator == nil || !c.validator.Gates(v.Code) {
		return
	}
	if v.Location == "" {
		v.Location = c.location
	}
	c.errors = append(c.errors, v)
	c.logger.Warn("compliance.violation", observability.String("code", v.Code), observability.String("description", v.Description))
}

// ValidationErrors returns every violation recorded so far.
func (c *SerializeContext) ValidationErrors() []compliance.Violation { return c.errors }

// Validator returns the active compliance validator, or nil if none.
func (c *SerializeContext) Validator() compliance.Validator { return c.validator }
