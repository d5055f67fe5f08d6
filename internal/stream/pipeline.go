package stream

import "sync"

// Stage is implemented by any pipeline element that has a lifecycle, so
// a Pipeline can start/stop them uniformly. model.Receiver implements
// it; the DSP chains, the HDLC decoder and the sinks do not.
type Stage interface {
	Start() error
	Stop()
}

// Pipeline is a registry of wired stages, used by cmd to bring up the
// DSP -> HDLC -> NMEA -> AIS -> (VesselDB, Statistics, Sinks) graph and
// tear it down cleanly on shutdown. It mirrors the teacher's
// serverManager: a flat list of lifecycle-having components started in
// registration order and stopped in reverse order.
type Pipeline struct {
	mu     sync.Mutex
	stages []Stage
}

// Add registers a stage with the pipeline. Must be called during the
// configuration phase, before Start.
func (p *Pipeline) Add(s Stage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = append(p.stages, s)
}

// Start starts every registered stage in registration order. If a stage
// fails to start, already-started stages are stopped and the error is
// returned.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.stages {
		if err := s.Start(); err != nil {
			for j := i - 1; j >= 0; j-- {
				p.stages[j].Stop()
			}
			return err
		}
	}
	return nil
}

// Stop stops every registered stage in reverse registration order.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.stages) - 1; i >= 0; i-- {
		p.stages[i].Stop()
	}
}
