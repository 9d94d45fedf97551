/*
go-yolact provides the CPU side post processing stage for YOLACT instance
segmentation models.  It takes the raw output tensors of the network (box
regression deltas, class confidences, mask coefficients and mask prototypes)
and turns them into object detections with pixel accurate binary masks in the
coordinate space of the original image.

Running the network itself is left to whichever inference engine you use
(TensorRT, ONNX Runtime, RKNN...).  Copy its four output buffers into an
Outputs struct and hand that to the postprocess package.

See example code and usage in the example subdirectory.
*/
package yolact
