package postprocess

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/swdee/go-yolact"
	"github.com/swdee/go-yolact/postprocess/result"
	"go.uber.org/zap"
)

// maxSegMaskDetections is the most detections a combined segment mask can
// index, pixel values are uint8 with zero meaning background
const maxSegMaskDetections = 255

// YOLACT defines the struct for YOLACT model inference post processing
type YOLACT struct {
	// Params are the Model configuration parameters
	Params YOLACTParams
	// priors is the prior box table, computed once
	priors []PriorBox
	// idGen provides the next number for each detection result ID
	idGen *result.IDGenerator
	// masks assembles per detection segment masks
	masks *MaskAssembler
	log   *zap.Logger
	// metrics are optional, nil disables them
	metrics *Metrics
}

// YOLACTParams defines the struct containing the YOLACT parameters to use
// for post processing operations
type YOLACTParams struct {
	// ConfidenceThreshold is the minimum class score a prior must exceed to
	// be considered a candidate detection
	ConfidenceThreshold float32 `yaml:"confidence_threshold"`
	// NMSThreshold is the Non-Maximum Suppression threshold used for defining
	// the maximum allowed Intersection Over Union (IoU) between two
	// bounding boxes of the same class for both to be kept
	NMSThreshold float32 `yaml:"nms_threshold"`
	// KeepTopK is the maximum number of detections returned across all
	// classes, zero or less returns all
	KeepTopK int `yaml:"keep_top_k"`
	// MaskThreshold is the activation a resized mask pixel must exceed to be
	// part of the object
	MaskThreshold float32 `yaml:"mask_threshold"`
	// ParallelNMS runs Non-Maximum Suppression of each class concurrently
	ParallelNMS bool `yaml:"parallel_nms"`
	// Variances are the box regression variances
	Variances [4]float32 `yaml:"variances"`
	// Shape is the Model output shape
	Shape yolact.ModelShape `yaml:"shape"`
	// Priors is the anchor configuration
	Priors PriorParams `yaml:"priors"`
}

// YOLACTCOCOParams returns an instance of YOLACTParams configured with
// default values for a 550x550 Model trained on the COCO dataset featuring:
// - Object Classes: 80 plus background
// - Confidence Threshold: 0.05
// - NMS Threshold: 0.5
// - Keep Top K: 200
// - Mask Threshold: 0.5
func YOLACTCOCOParams() YOLACTParams {
	return YOLACTParams{
		ConfidenceThreshold: 0.05,
		NMSThreshold:        0.5,
		KeepTopK:            200,
		MaskThreshold:       0.5,
		Variances:           DefaultVariances,
		Shape:               yolact.COCOShape(),
		Priors:              YOLACTPriorParams(),
	}
}

// Validate checks the parameters are in range and consistent with each other
func (p YOLACTParams) Validate() error {

	if p.ConfidenceThreshold < 0 || p.ConfidenceThreshold > 1 {
		return errors.Wrapf(ErrInvalidParams, "confidence threshold %f", p.ConfidenceThreshold)
	}

	if p.NMSThreshold < 0 || p.NMSThreshold > 1 {
		return errors.Wrapf(ErrInvalidParams, "nms threshold %f", p.NMSThreshold)
	}

	if p.KeepTopK > maxSegMaskDetections {
		return errors.Wrapf(ErrInvalidParams, "keep top k %d exceeds %d",
			p.KeepTopK, maxSegMaskDetections)
	}

	s := p.Shape

	if s.NumClasses < 2 || s.MaskChannels <= 0 || s.ProtoHeight <= 0 || s.ProtoWidth <= 0 {
		return errors.Wrapf(ErrInvalidParams, "model shape %+v", s)
	}

	if err := p.Priors.Validate(); err != nil {
		return err
	}

	if n := p.Priors.NumPriors(); n != s.NumPriors {
		return errors.Wrapf(yolact.ErrShapeMismatch, "priors generate %d boxes, model has %d",
			n, s.NumPriors)
	}

	return nil
}

// Option configures optional YOLACT settings
type Option func(*YOLACT)

// WithLogger sets the logger stage information is written to
func WithLogger(l *zap.Logger) Option {
	return func(y *YOLACT) {
		y.log = l
	}
}

// WithMetrics records stage durations and detection counts to m
func WithMetrics(m *Metrics) Option {
	return func(y *YOLACT) {
		y.metrics = m
	}
}

// NewYOLACT returns an instance of the YOLACT post processor
func NewYOLACT(p YOLACTParams, opts ...Option) (*YOLACT, error) {

	if err := p.Validate(); err != nil {
		return nil, err
	}

	y := &YOLACT{
		Params: p,
		priors: GeneratePriors(p.Priors),
		idGen:  result.NewIDGenerator(),
		masks:  NewMaskAssembler(p.Shape, p.MaskThreshold),
		log:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(y)
	}

	return y, nil
}

// Priors returns the prior box table used for decoding
func (y *YOLACT) Priors() []PriorBox {
	return y.priors
}

// YOLACTResult defines a struct used for object detection results
type YOLACTResult struct {
	DetectResults []Detection
	// ImageWidth and ImageHeight are the original image dimensions boxes
	// are scaled to
	ImageWidth  int
	ImageHeight int
}

// GetDetectResults returns the object detection results containing bounding
// boxes
func (r YOLACTResult) GetDetectResults() []Detection {
	return r.DetectResults
}

// DetectObjects takes the YOLACT Model outputs and returns the detected
// objects in descending probability order with boxes scaled to the original
// image dimensions.  Masks are not assembled, see SegmentMask.
func (y *YOLACT) DetectObjects(outputs *yolact.Outputs, imgWidth,
	imgHeight int) (YOLACTResult, error) {

	if imgWidth <= 0 || imgHeight <= 0 {
		return YOLACTResult{}, errors.Wrapf(ErrInvalidParams, "image size %dx%d",
			imgWidth, imgHeight)
	}

	if err := outputs.Validate(y.Params.Shape); err != nil {
		return YOLACTResult{}, err
	}

	start := time.Now()

	buckets := Decode(y.priors, outputs, DecodeParams{
		ConfidenceThreshold: y.Params.ConfidenceThreshold,
		Variances:           y.Params.Variances,
		ImageWidth:          imgWidth,
		ImageHeight:         imgHeight,
	})

	candidates := 0

	for _, b := range buckets {
		candidates += len(b)
	}

	y.metrics.observeStage(stageDecode, start)
	y.metrics.addCandidates(candidates)

	start = time.Now()
	kept := y.suppress(buckets)
	y.metrics.observeStage(stageNMS, start)

	start = time.Now()
	dets := SelectTopK(kept, y.Params.KeepTopK)
	y.metrics.observeStage(stageSelect, start)

	for i := range dets {
		dets[i].ID = y.idGen.GetNext()
	}

	y.metrics.addDetections(len(dets))

	y.log.Debug("yolact detect",
		zap.Int("candidates", candidates),
		zap.Int("detections", len(dets)),
		zap.Int("width", imgWidth),
		zap.Int("height", imgHeight),
	)

	return YOLACTResult{
		DetectResults: dets,
		ImageWidth:    imgWidth,
		ImageHeight:   imgHeight,
	}, nil
}

// suppress runs NMS on every class bucket, the returned slice keeps the
// class order of buckets
func (y *YOLACT) suppress(buckets [][]Detection) [][]Detection {

	kept := make([][]Detection, len(buckets))

	if !y.Params.ParallelNMS {
		for c, b := range buckets {
			kept[c] = SuppressClass(b, y.Params.NMSThreshold)
		}

		return kept
	}

	var wg sync.WaitGroup

	for c, b := range buckets {
		if len(b) == 0 {
			continue
		}

		wg.Add(1)

		go func(c int, b []Detection) {
			defer wg.Done()
			kept[c] = SuppressClass(b, y.Params.NMSThreshold)
		}(c, b)
	}

	wg.Wait()

	return kept
}

// SegmentMask assembles the mask of every detection in res, storing it in
// the detection's Mask field, and returns the combined mask of all
// detections where each pixel holds the 1 based index of the detection
// covering it.  Later detections overwrite earlier ones where they overlap.
// An error is returned if res holds more than 255 detections, which can only
// happen when KeepTopK is zero or less.
func (y *YOLACT) SegmentMask(res YOLACTResult, outputs *yolact.Outputs) (SegMask, error) {

	if outputs == nil || outputs.Prototypes == nil {
		return SegMask{}, yolact.ErrMissingTensor
	}

	if n := len(res.DetectResults); n > maxSegMaskDetections {
		return SegMask{}, errors.Wrapf(ErrInvalidParams,
			"%d detections exceed the %d a segment mask can index, set keep top k",
			n, maxSegMaskDetections)
	}

	start := time.Now()

	err := y.masks.AssembleAll(res.DetectResults, outputs.Prototypes,
		res.ImageWidth, res.ImageHeight)

	if err != nil {
		return SegMask{}, err
	}

	y.metrics.observeStage(stageMask, start)

	all := make([]uint8, res.ImageWidth*res.ImageHeight)

	for i, det := range res.DetectResults {
		idx := uint8(i + 1)

		for p, v := range det.Mask {
			if v == maskOn {
				all[p] = idx
			}
		}
	}

	return SegMask{
		Mask:   all,
		Width:  res.ImageWidth,
		Height: res.ImageHeight,
	}, nil
}

// Process runs object detection followed by mask assembly
func (y *YOLACT) Process(outputs *yolact.Outputs, imgWidth,
	imgHeight int) ([]Detection, SegMask, error) {

	res, err := y.DetectObjects(outputs, imgWidth, imgHeight)

	if err != nil {
		return nil, SegMask{}, err
	}

	segMask, err := y.SegmentMask(res, outputs)

	if err != nil {
		return nil, SegMask{}, err
	}

	return res.DetectResults, segMask, nil
}
