package raster

import (
	"math"
	"testing"
)

func TestApplyHeightCorrections(t *testing.T) {
	g := &GridDescriptor{Projection: ProjectionGeo, Resolution: 1, SizeX: 3, SizeY: 1}
	r := NewResult(g, false)
	for k := 0; k < 3; k++ {
		r.Layer(ChannelWSE).Set(k, 100)
		r.Layer(ChannelGeoid).Set(k, 30)
		r.Layer(ChannelSolidEarthTide).Set(k, 0.2)
		r.Layer(ChannelLoadTideSol1).Set(k, 0.05)
		r.Layer(ChannelPoleTide).Set(k, 0.01)
		r.Layer(ChannelLoadTideSol2).Set(k, 7) // not applied
	}
	r.Layer(ChannelPoleTide).Set(1, math.NaN())
	r.Layer(ChannelWSE).Set(2, math.NaN())

	out := ApplyHeightCorrections(r)

	if v, ok := out.Layer(ChannelWSE).At(0); !ok || math.Abs(v-69.74) > 1e-9 {
		t.Errorf("corrected wse = %g (valid %v), want 69.74", v, ok)
	}
	if _, ok := out.Layer(ChannelWSE).At(1); ok {
		t.Error("cell with a missing correction should be no-data")
	}
	if _, ok := out.Layer(ChannelWSE).At(2); ok {
		t.Error("cell with no height should stay no-data")
	}
	if v, _ := r.Layer(ChannelWSE).At(0); v != 100 {
		t.Errorf("input was modified: wse = %g", v)
	}
	if out.Layer(ChannelGeoid) != r.Layer(ChannelGeoid) {
		t.Error("correction channels should be shared, not copied")
	}

	h, ok := out.EllipsoidHeight(0)
	if !ok || math.Abs(h-100) > 1e-9 {
		t.Errorf("EllipsoidHeight = %g (valid %v), want 100", h, ok)
	}
	if _, ok := out.EllipsoidHeight(1); ok {
		t.Error("EllipsoidHeight of a no-data cell should be invalid")
	}
}

func TestLayer(t *testing.T) {
	l := NewLayer("x", 3)
	if l.ValidCount() != 0 || !math.IsNaN(l.Values[0]) {
		t.Fatalf("new layer should be all no-data: %+v", l)
	}
	l.Set(0, 1.5)
	l.Set(1, math.Inf(1))
	l.Set(2, 2)
	l.Set(2, math.NaN())
	if l.ValidCount() != 1 {
		t.Errorf("ValidCount = %d, want 1", l.ValidCount())
	}
	c := l.Clone()
	c.Set(1, 4)
	if _, ok := l.At(1); ok {
		t.Error("Clone shares storage with its source")
	}
}

func TestResultEmptyAndChannels(t *testing.T) {
	g := &GridDescriptor{Projection: ProjectionUTM, Resolution: 100, SizeX: 2, SizeY: 2}
	r := NewResult(g, false)
	if !r.IsEmpty() || !math.IsNaN(r.TAIUTCDifference) {
		t.Errorf("new result should be empty with unknown TAI-UTC difference")
	}
	names := ChannelNames(ProjectionUTM, false)
	if names[0] != ChannelLatitude || names[len(names)-1] != ChannelIonoCorGimKa {
		t.Errorf("unexpected channel order %v", names)
	}
	for i, l := range r.Channels() {
		if l.Name != names[i] || len(l.Values) != 4 {
			t.Errorf("channel %d = %s with %d cells", i, l.Name, len(l.Values))
		}
	}
	if got, want := len(ChannelNames(ProjectionGeo, true)), len(channelOrder)-2; got != want {
		t.Errorf("geo debug channels = %d, want %d", got, want)
	}
}
