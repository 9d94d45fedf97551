package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swdee/go-yolact"
	"github.com/swdee/go-yolact/postprocess"
	"github.com/swdee/go-yolact/preprocess"
	"github.com/swdee/go-yolact/render"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	dumpDir := flag.String("d", "../data/yolact-dump", "Directory holding loc.bin, conf.bin, mask.bin and proto.bin Model outputs")
	half := flag.Bool("f16", false, "Model output dumps are IEEE half precision")
	imgFile := flag.String("i", "../data/bus.jpg", "Image file the Model outputs were produced from")
	labelFile := flag.String("l", "", "Text file containing model labels, background first. Defaults to COCO")
	paramsFile := flag.String("p", "", "YAML file overriding the COCO post processing parameters")
	saveFile := flag.String("o", "../data/bus-yolact-out.jpg", "The output file with object detection markers")
	blobFile := flag.String("b", "", "Optionally write the normalised Model input blob for the image to this file")
	renderFormat := flag.String("r", "mask", "The rendering format used for instance segmentation [mask|outline|dump|png]")
	minProb := flag.Float64("min", 0.15, "Minimum probability of detections to render")
	metricsAddr := flag.String("metrics", "", "Serve prometheus metrics on this address after processing, eg: :9090")
	verbose := flag.Bool("v", false, "Verbose post processing logs")

	flag.Parse()

	logger := zap.NewNop()

	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()

		if err != nil {
			log.Fatal("Error creating logger: ", err)
		}
	}

	defer logger.Sync()

	params := postprocess.YOLACTCOCOParams()

	if *paramsFile != "" {
		var err error
		params, err = postprocess.LoadParams(*paramsFile)

		if err != nil {
			log.Fatal("Error loading parameters: ", err)
		}
	}

	opts := []postprocess.Option{postprocess.WithLogger(logger)}
	reg := prometheus.NewRegistry()

	if *metricsAddr != "" {
		metrics, err := postprocess.NewMetrics(reg)

		if err != nil {
			log.Fatal("Error registering metrics: ", err)
		}

		opts = append(opts, postprocess.WithMetrics(metrics))
	}

	// create YOLACT post processor
	yolactProcessor, err := postprocess.NewYOLACT(params, opts...)

	if err != nil {
		log.Fatal("Error creating post processor: ", err)
	}

	// load in Model class names
	classNames := yolact.COCOLabels()

	if *labelFile != "" {
		classNames, err = yolact.LoadLabels(*labelFile)

		if err != nil {
			log.Fatal("Error loading model labels: ", err)
		}
	}

	// load image
	img := gocv.IMRead(*imgFile, gocv.IMReadColor)

	if img.Empty() {
		log.Fatal("Error reading image from: ", *imgFile)
	}

	defer img.Close()

	if *blobFile != "" {
		writeBlob(*blobFile, img, params.Priors.InputSize)
	}

	// load the Model outputs
	var outputs *yolact.Outputs

	if *half {
		outputs, err = yolact.LoadOutputsF16(*dumpDir, params.Shape)
	} else {
		outputs, err = yolact.LoadOutputs(*dumpDir, params.Shape)
	}

	if err != nil {
		log.Fatal("Error loading Model outputs: ", err)
	}

	if err := outputs.Query(os.Stdout); err != nil {
		log.Fatal("Error querying outputs: ", err)
	}

	start := time.Now()

	detectObjs, err := yolactProcessor.DetectObjects(outputs, img.Cols(), img.Rows())

	if err != nil {
		log.Fatal("Object detection failed: ", err)
	}

	endDetect := time.Now()

	segMask, err := yolactProcessor.SegmentMask(detectObjs, outputs)

	if err != nil {
		log.Fatal("Mask assembly failed: ", err)
	}

	endMask := time.Now()

	detectResults := detectObjs.GetDetectResults()

	switch *renderFormat {
	case "outline":
		err = render.SegmentOutline(&img, segMask.Mask, detectResults, 1000,
			classNames, render.DefaultFont(), 2)

	case "dump":
		err = render.PaintSegmentToFile(*saveFile, img.Rows(), img.Cols(), segMask.Mask, 1)

	case "png":
		err = savePNG(*saveFile, img, detectResults, classNames, float32(*minProb))

	case "mask":
		fallthrough
	default:
		err = render.SegmentMask(&img, segMask.Mask, 0.5)

		render.DetectionBoxes(&img, detectResults, classNames,
			render.ClassicFont(), 1, float32(*minProb))
	}

	if err != nil {
		log.Fatal("Rendering failed: ", err)
	}

	endRendering := time.Now()

	for _, det := range detectResults {
		fmt.Printf("%s @ (%.2f %.2f %.2f x %.2f) %f\n", render.LabelText(classNames, det),
			det.Box.X, det.Box.Y, det.Box.Width, det.Box.Height, det.Probability)
	}

	log.Printf("Post processing speed: detect=%s, masks=%s, rendering=%s, total time=%s\n",
		endDetect.Sub(start).String(),
		endMask.Sub(endDetect).String(),
		endRendering.Sub(endMask).String(),
		endRendering.Sub(start).String(),
	)

	if *renderFormat == "mask" || *renderFormat == "outline" {
		if ok := gocv.IMWrite(*saveFile, img); !ok {
			log.Fatal("Failed to save the image")
		}
	}

	log.Printf("Saved object detection result to %s\n", *saveFile)

	if *metricsAddr != "" {
		log.Printf("Serving metrics on %s/metrics\n", *metricsAddr)
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		log.Fatal(http.ListenAndServe(*metricsAddr, nil))
	}
}

// writeBlob saves the normalised CHW Model input for img as little endian
// float32 so it can be fed to an inference engine
func writeBlob(file string, img gocv.Mat, inputSize int) {

	resizer := preprocess.NewResizer(img.Cols(), img.Rows(), inputSize, inputSize)
	defer resizer.Close()

	blob, err := preprocess.PrepareInput(resizer, img)

	if err != nil {
		log.Fatal("Error preparing input blob: ", err)
	}

	f, err := os.Create(file)

	if err != nil {
		log.Fatal("Error creating blob file: ", err)
	}

	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, blob); err != nil {
		log.Fatal("Error writing blob file: ", err)
	}

	log.Printf("Saved %d element input blob to %s\n", len(blob), file)
}

// savePNG renders the detections without OpenCV drawing and saves a PNG
func savePNG(file string, img gocv.Mat, dets []postprocess.Detection,
	classNames []string, minProb float32) error {

	src, err := img.ToImage()

	if err != nil {
		return err
	}

	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)

	render.Overlay(rgba, dets, classNames, 0.5, minProb)

	f, err := os.Create(file)

	if err != nil {
		return err
	}

	defer f.Close()

	return png.Encode(f, rgba)
}
