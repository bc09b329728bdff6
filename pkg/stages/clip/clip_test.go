package clip

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/user/grainfx/pkg/adapters/logger"
	"github.com/user/grainfx/pkg/effects"
	"github.com/user/grainfx/pkg/mocks"
	"github.com/user/grainfx/pkg/pipeline"
	"github.com/user/grainfx/pkg/ports"
)

var testInfo = ports.VideoInfo{
	Width:      64,
	Height:     48,
	FrameRate:  ports.Rational{Num: 30, Den: 1},
	FrameCount: 10,
	Codec:      "avc1",
	Prober:     "mock",
}

type fixture struct {
	prober  *mocks.VideoProber
	decoder *mocks.VideoDecoder
	encoder *mocks.VideoEncoder
	sink    *mocks.PreviewSink
}

func newFixture() *fixture {
	return &fixture{
		prober:  &mocks.VideoProber{Info: testInfo},
		decoder: &mocks.VideoDecoder{Frames: 10, Color: color.NRGBA{R: 90, G: 120, B: 150, A: 255}},
		encoder: &mocks.VideoEncoder{},
		sink:    mocks.NewPreviewSink(false),
	}
}

func (f *fixture) stage(chain *effects.Chain, seeder *effects.Seeder) *Stage {
	return NewStage(f.prober, f.decoder, f.encoder, mocks.NewFileSystem(), chain, seeder, f.sink, logger.NewNoop(), DefaultOptions())
}

var job = pipeline.FileJob{Name: "clip.mov", Source: "/in/clip.mov", Dest: "/out/filtered_clip.mov"}

func TestStage_Execute(t *testing.T) {
	f := newFixture()
	result, err := f.stage(nil, nil).Execute(context.Background(), job)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !f.encoder.BeginCalled || !f.encoder.EndCalled {
		t.Fatal("encoder should be begun and ended")
	}
	if f.encoder.AbortCalled {
		t.Error("encoder should not be aborted on success")
	}
	begin := f.encoder.BeginCall
	if begin.Path != job.Dest || begin.Width != 64 || begin.Height != 48 {
		t.Errorf("unexpected Begin call %+v", begin)
	}
	if begin.Rate != testInfo.FrameRate {
		t.Errorf("rate = %s, want %s", begin.Rate, testInfo.FrameRate)
	}
	if begin.Opts.Preset != "medium" || begin.Opts.CRF != 23 {
		t.Errorf("unexpected encoder options %+v", begin.Opts)
	}
	if begin.Opts.AudioFrom != "" {
		t.Error("a clip without audio should not request audio copy")
	}

	if len(f.encoder.EncodeFrameCalls) != 10 {
		t.Fatalf("expected 10 frames encoded, got %d", len(f.encoder.EncodeFrameCalls))
	}
	for i, c := range f.encoder.EncodeFrameCalls {
		if c.Width != 64 || c.Height != 48 {
			t.Errorf("frame %d is %dx%d", i, c.Width, c.Height)
		}
	}

	if result.Video == nil || result.Video.Frames != 10 {
		t.Fatalf("unexpected video result %+v", result.Video)
	}
	if result.Video.FrameRate != testInfo.FrameRate || result.Video.Probe != "mock" {
		t.Errorf("metadata not carried: %+v", result.Video)
	}
	if result.Chain != "grain > distortion > contrast" {
		t.Errorf("Chain = %q", result.Chain)
	}
	if !f.decoder.Sources[0].Closed {
		t.Error("frame source should be closed")
	}
}

func TestStage_KeepsAudio(t *testing.T) {
	f := newFixture()
	f.prober.Info.HasAudio = true
	result, err := f.stage(nil, nil).Execute(context.Background(), job)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if f.encoder.BeginCall.Opts.AudioFrom != job.Source {
		t.Errorf("AudioFrom = %q, want %q", f.encoder.BeginCall.Opts.AudioFrom, job.Source)
	}
	if !result.Video.HasAudio {
		t.Error("result should report audio")
	}
}

func TestStage_PortraitSourceStaysUpright(t *testing.T) {
	f := newFixture()
	f.prober.Info.Rotation = 90
	result, err := f.stage(nil, nil).Execute(context.Background(), job)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if f.encoder.BeginCall.Width != 48 || f.encoder.BeginCall.Height != 64 {
		t.Errorf("encoder size = %dx%d, want display size 48x64", f.encoder.BeginCall.Width, f.encoder.BeginCall.Height)
	}
	for _, call := range f.encoder.EncodeFrameCalls {
		if call.Width != 48 || call.Height != 64 {
			t.Fatalf("frame %dx%d does not match the display size", call.Width, call.Height)
		}
	}
	if result.Width != 48 || result.Height != 64 {
		t.Errorf("result size = %dx%d", result.Width, result.Height)
	}
}

func TestStage_TransformsEachFrame(t *testing.T) {
	f := newFixture()
	f.decoder.Frames = 3

	calls := 0
	marker := effects.NewChain("mark", markEffect{calls: &calls})
	if _, err := f.stage(marker, nil).Execute(context.Background(), job); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if calls != 3 {
		t.Fatalf("expected 3 transformed frames, got %d", calls)
	}
	for _, c := range f.encoder.EncodeFrameCalls {
		if got := c.Image.At(0, 0).(color.NRGBA); got.R != 1 {
			t.Errorf("encoded frame was not transformed: %v", got)
		}
	}
}

// markEffect sets the first pixel red channel to 1 and counts calls.
type markEffect struct {
	calls *int
}

func (m markEffect) Name() string { return "mark" }

func (m markEffect) Apply(img image.Image, _ *rand.Rand) *image.NRGBA {
	*m.calls++
	out := image.NewNRGBA(img.Bounds())
	out.Pix[0] = 1
	out.Pix[3] = 255
	return out
}

func TestStage_SeededFramesReproducible(t *testing.T) {
	seed := uint64(7)
	run := func() []image.Image {
		f := newFixture()
		f.decoder.Frames = 2
		if _, err := f.stage(nil, effects.NewSeeder(&seed)).Execute(context.Background(), job); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		var out []image.Image
		for _, c := range f.encoder.EncodeFrameCalls {
			out = append(out, c.Image)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		pa, pb := a[i].(*image.NRGBA).Pix, b[i].(*image.NRGBA).Pix
		for j := range pa {
			if pa[j] != pb[j] {
				t.Fatalf("frame %d differs at byte %d", i, j)
			}
		}
	}
}

func TestStage_ProbeError(t *testing.T) {
	f := newFixture()
	f.prober.Err = errors.New("moov missing")

	_, err := f.stage(nil, nil).Execute(context.Background(), job)
	var stepErr *pipeline.StepError
	if !errors.As(err, &stepErr) || stepErr.Step != pipeline.StepProbe {
		t.Fatalf("expected probe StepError, got %v", err)
	}
	if f.encoder.BeginCalled {
		t.Error("encoder should not start after a probe failure")
	}
	if pipeline.LeftPartial(err) {
		t.Error("a probe failure leaves no output behind")
	}
}

func TestStage_InvalidMetadata(t *testing.T) {
	f := newFixture()
	f.prober.Info.FrameRate = ports.Rational{}

	_, err := f.stage(nil, nil).Execute(context.Background(), job)
	if !errors.Is(err, ErrInvalidVideo) {
		t.Fatalf("expected ErrInvalidVideo, got %v", err)
	}
}

func TestStage_DecodeErrorAborts(t *testing.T) {
	f := newFixture()
	errCorrupt := errors.New("corrupt packet")
	f.decoder.FailAt = 4
	f.decoder.NextErr = errCorrupt

	_, err := f.stage(nil, nil).Execute(context.Background(), job)
	if !errors.Is(err, errCorrupt) {
		t.Fatalf("expected decode error, got %v", err)
	}
	var stepErr *pipeline.StepError
	if !errors.As(err, &stepErr) || stepErr.Step != pipeline.StepDecode {
		t.Errorf("expected decode step, got %v", err)
	}
	if !pipeline.LeftPartial(err) {
		t.Error("a failure after Begin may leave a partial output")
	}
	if !f.encoder.AbortCalled {
		t.Error("encoder should be aborted")
	}
	if f.encoder.EndCalled {
		t.Error("encoder should not be ended after a failure")
	}
	if len(f.encoder.EncodeFrameCalls) != 4 {
		t.Errorf("expected 4 frames before failure, got %d", len(f.encoder.EncodeFrameCalls))
	}
	if !f.decoder.Sources[0].Closed {
		t.Error("frame source should be closed on failure")
	}
}

func TestStage_EncodeErrorAborts(t *testing.T) {
	f := newFixture()
	errPipe := errors.New("broken pipe")
	f.encoder.EncodeFrameFunc = func(image.Image) error { return errPipe }

	_, err := f.stage(nil, nil).Execute(context.Background(), job)
	if !errors.Is(err, errPipe) {
		t.Fatalf("expected encode error, got %v", err)
	}
	if !f.encoder.AbortCalled {
		t.Error("encoder should be aborted")
	}
}

func TestStage_CanceledBetweenFrames(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	f.encoder.EncodeFrameFunc = func(image.Image) error {
		if len(f.encoder.EncodeFrameCalls) == 2 {
			cancel()
		}
		return nil
	}

	_, err := f.stage(nil, nil).Execute(ctx, job)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(f.encoder.EncodeFrameCalls) != 2 {
		t.Errorf("expected to stop after 2 frames, got %d", len(f.encoder.EncodeFrameCalls))
	}
	if !pipeline.LeftPartial(err) {
		t.Error("a cancel while encoding may leave a partial output")
	}
	if !f.encoder.AbortCalled {
		t.Error("encoder should be aborted on cancel")
	}
}

func TestStage_Preview(t *testing.T) {
	f := newFixture()
	f.sink = mocks.NewPreviewSink(true)
	f.decoder.Frames = 3

	if _, err := f.stage(nil, nil).Execute(context.Background(), job); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	got := f.sink.Frames["clip.mov"]
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("preview frames = %v", got)
	}
}
