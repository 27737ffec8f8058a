package gpio

import "log"

// Sensor turns a fallible Reader into the infallible reading the state
// machine expects. A failed read yields the last good reading.
type Sensor struct {
	reader  Reader
	last    bool
	faulted bool
	faults  int
}

// NewSensor wraps r. Until the first good read, a failure reports false.
func NewSensor(r Reader) *Sensor {
	return &Sensor{reader: r}
}

// Read returns true when an object is near.
func (s *Sensor) Read() bool {
	v, err := s.reader.Read()
	if err != nil {
		s.faults++
		if !s.faulted {
			log.Printf("sensor read error (holding %v): %v", s.last, err)
			s.faulted = true
		}
		return s.last
	}

	if s.faulted {
		log.Printf("sensor recovered after %d failed reads", s.faults)
		s.faulted = false
	}
	s.last = v
	return v
}

// Faults returns the total number of failed reads.
func (s *Sensor) Faults() int {
	return s.faults
}

// Close closes the underlying reader.
func (s *Sensor) Close() error {
	return s.reader.Close()
}
