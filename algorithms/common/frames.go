package common

import "fmt"

// SlidingWindow cuts a sample stream delivered in arbitrary chunks into
// fixed-size frames spaced hopSize samples apart
type SlidingWindow struct {
	buffer     []float64
	windowSize int
	hopSize    int
	filled     int // samples held in buffer
	skip       int // samples to drop before the next frame when hopSize > windowSize
	start      int // stream offset of buffer[0]
}

// NewSlidingWindow creates a new sliding window
func NewSlidingWindow(windowSize, hopSize int) (*SlidingWindow, error) {
	if windowSize <= 0 || hopSize <= 0 {
		return nil, fmt.Errorf("%w: window size %d and hop size %d must be positive", ErrIncorrectParameters, windowSize, hopSize)
	}
	return &SlidingWindow{
		buffer:     make([]float64, windowSize),
		windowSize: windowSize,
		hopSize:    hopSize,
	}, nil
}

// Push appends samples and calls emit for every frame they complete, with
// the frame's offset in the stream. frame is only valid during the call.
// An error from emit stops the push.
func (sw *SlidingWindow) Push(samples []float64, emit func(offset int, frame []float64) error) error {
	for len(samples) > 0 {
		if sw.skip > 0 {
			n := min(sw.skip, len(samples))
			sw.skip -= n
			sw.start += n
			samples = samples[n:]
			continue
		}

		n := copy(sw.buffer[sw.filled:], samples)
		sw.filled += n
		samples = samples[n:]
		if sw.filled < sw.windowSize {
			continue
		}

		if err := emit(sw.start, sw.buffer); err != nil {
			return err
		}

		if sw.hopSize < sw.windowSize {
			copy(sw.buffer, sw.buffer[sw.hopSize:])
			sw.filled = sw.windowSize - sw.hopSize
			sw.start += sw.hopSize
		} else {
			sw.filled = 0
			sw.skip = sw.hopSize - sw.windowSize
			sw.start += sw.windowSize
		}
	}
	return nil
}

// Reset drops buffered samples and restarts offsets at 0
func (sw *SlidingWindow) Reset() {
	sw.filled = 0
	sw.skip = 0
	sw.start = 0
	clear(sw.buffer)
}

// GetWindowSize returns the window size
func (sw *SlidingWindow) GetWindowSize() int {
	return sw.windowSize
}

// GetHopSize returns the hop size
func (sw *SlidingWindow) GetHopSize() int {
	return sw.hopSize
}
