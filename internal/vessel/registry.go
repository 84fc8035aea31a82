package vessel

import (
	"sort"
	"sync"
)

// Registry is an in-memory vessel store keyed by MMSI. Updates are partial:
// a position report leaves static data untouched and vice versa.
type Registry struct {
	mu      sync.RWMutex
	vessels map[string]*Record
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{vessels: make(map[string]*Record)}
}

func (r *Registry) get(mmsi string) *Record {
	v, ok := r.vessels[mmsi]
	if !ok {
		v = &Record{MMSI: mmsi, Transceiver: TransceiverClassA}
		r.vessels[mmsi] = v
	}
	return v
}

// UpdatePosition stores a new fix and navigation data for a vessel,
// creating the record if needed.
func (r *Registry) UpdatePosition(mmsi string, class Transceiver, fix Fix, nav Navigation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.get(mmsi)
	v.Transceiver = class
	f := fix
	v.Position = &f
	if nav.CourseOverGroundRad != nil {
		v.Navigation.CourseOverGroundRad = nav.CourseOverGroundRad
	}
	if nav.SpeedOverGroundMps != nil {
		v.Navigation.SpeedOverGroundMps = nav.SpeedOverGroundMps
	}
	if nav.HeadingRad != nil {
		v.Navigation.HeadingRad = nav.HeadingRad
	}
	if nav.RateOfTurnRadSec != nil {
		v.Navigation.RateOfTurnRadSec = nav.RateOfTurnRadSec
	}
	if nav.ManeuverIndicator != nil {
		v.Navigation.ManeuverIndicator = nav.ManeuverIndicator
	}
}

// UpdateStatics merges static descriptors into a vessel record, creating it
// if needed. Only non-nil fields overwrite.
func (r *Registry) UpdateStatics(mmsi string, class Transceiver, s Statics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.get(mmsi)
	v.Transceiver = class
	if s.Name != nil {
		v.Statics.Name = s.Name
	}
	if s.CallSign != nil {
		v.Statics.CallSign = s.CallSign
	}
	if s.ShipType != nil {
		v.Statics.ShipType = s.ShipType
	}
	if s.Destination != nil {
		v.Statics.Destination = s.Destination
	}
	if s.DraughtM != nil {
		v.Statics.DraughtM = s.DraughtM
	}
	if s.ToBowM != nil {
		v.Statics.ToBowM = s.ToBowM
	}
	if s.ToSternM != nil {
		v.Statics.ToSternM = s.ToSternM
	}
	if s.ToPortM != nil {
		v.Statics.ToPortM = s.ToPortM
	}
	if s.ToStarboardM != nil {
		v.Statics.ToStarboardM = s.ToStarboardM
	}
}

// Get returns a copy of one vessel record.
func (r *Registry) Get(mmsi string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vessels[mmsi]
	if !ok {
		return Record{}, false
	}
	return *v, true
}

// List returns copies of all vessel records, ordered by MMSI for stable
// iteration. It never fails; it satisfies Source so the reporter can treat
// remote registries and this one alike.
func (r *Registry) List() ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, 0, len(r.vessels))
	for _, v := range r.vessels {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MMSI < out[j].MMSI })
	return out, nil
}
