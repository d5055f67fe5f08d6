package vessel

import (
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/stream"
)

// DefaultCapacity and DefaultPathCapacity are the fixed ring sizes
// used outside server mode (spec §4.7, ported from DB::setup's
// N=4096/M=4096*16, Tracking/DB.h).
const (
	DefaultCapacity     = 4096
	DefaultPathCapacity = 4096 * 16
)

// ServerModeMultiplier is applied to both capacities in server mode,
// ported from DB::setup's "Nships *= 32; Npaths *= 32".
const ServerModeMultiplier = 32

// DB is the fixed-capacity MRU vessel database: ships.length (and
// paths.length) never grow past their configured capacity; the least
// recently updated ship is evicted and reused once the ring is full
// (spec §4.7, ported from Tracking/DB.h's DB class).
type DB struct {
	mu sync.Mutex

	ships []Ship
	first int // most recently updated ship index
	last  int // least recently updated ship index (eviction candidate)
	count int

	paths   []PathPoint
	pathIdx int

	index *xsync.Map[uint32, int] // mmsi -> index into ships

	ownLat, ownLon float64
	ownMMSI        uint32
	useGPS         bool
	shareLatLon    bool
}

// NewDB allocates a DB with the given ship/path ring capacities (use
// DefaultCapacity/DefaultPathCapacity, scaled by ServerModeMultiplier
// in server mode, per DB::setup).
func NewDB(capacity, pathCapacity int) *DB {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if pathCapacity <= 0 {
		pathCapacity = DefaultPathCapacity
	}
	db := &DB{
		ships: make([]Ship, capacity),
		paths: make([]PathPoint, pathCapacity),
		index: xsync.NewMap[uint32, int](),
		ownLat: LatUndefined, ownLon: LonUndefined,
		useGPS: true,
	}
	// Set up the doubly linked free list exactly as DB::setup does:
	// ships[i].next = i-1, ships[i].prev = i+1, first = N-1, last = 0.
	for i := range db.ships {
		db.ships[i].Next = i - 1
		db.ships[i].Prev = i + 1
		db.ships[i].PathPtr = -1
	}
	db.ships[len(db.ships)-1].Prev = -1
	db.first = len(db.ships) - 1
	db.last = 0
	return db
}

// SetOwnMMSI records the receiver's own MMSI; the DB stores it only and
// derives no own position from it.
func (db *DB) SetOwnMMSI(mmsi uint32) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.ownMMSI = mmsi
}

// SetOwnPosition sets the receiver's own lat/lon directly (CLI
// override), ported from DB::setLatLon.
func (db *DB) SetOwnPosition(lat, lon float64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.ownLat, db.ownLon = lat, lon
}

// SetUseGPS toggles whether an inline GPS fix updates the own position
// (ported from DB::setUseGPS/Receive(AIS::GPS*)).
func (db *DB) SetUseGPS(use bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.useGPS = use
}

// ReceiveGPS feeds a GPS fix recovered by internal/nmea, updating the
// own position when GPS tracking is enabled.
func (db *DB) ReceiveGPS(lat, lon float64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.useGPS {
		db.ownLat, db.ownLon = lat, lon
	}
}

// OwnPosition returns the receiver's current own lat/lon.
func (db *DB) OwnPosition() (lat, lon float64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.ownLat, db.ownLon
}

// findShip returns the ring index for mmsi, or -1. Caller must hold mu.
func (db *DB) findShip(mmsi uint32) int {
	if idx, ok := db.index.Load(mmsi); ok {
		return idx
	}
	return -1
}

// createShip evicts the least-recently-updated ring slot (the
// eviction is a no-op reset when the ring isn't yet full) and returns
// its index, ported from DB::createShip.
func (db *DB) createShip() int {
	ptr := db.last
	prev, next := db.ships[ptr].Prev, db.ships[ptr].Next
	if evicted := db.ships[ptr].MMSI; evicted != 0 {
		db.index.Delete(evicted)
	}
	if db.count < len(db.ships) {
		db.count++
	}
	db.ships[ptr] = *NewShip(0)
	db.ships[ptr].Prev, db.ships[ptr].Next = prev, next
	return ptr
}

// moveShipToFront re-splices ptr to the head of the MRU list, ported
// from DB::moveShipToFront.
func (db *DB) moveShipToFront(ptr int) {
	if ptr == db.first {
		return
	}
	if db.ships[ptr].Next != -1 {
		db.ships[db.ships[ptr].Next].Prev = db.ships[ptr].Prev
	} else {
		db.last = db.ships[ptr].Prev
	}
	db.ships[db.ships[ptr].Prev].Next = db.ships[ptr].Next

	db.ships[ptr].Next = db.first
	db.ships[ptr].Prev = -1
	db.ships[db.first].Prev = ptr
	db.first = ptr
}

// isNextPathPoint mirrors DB::isNextPathPoint: idx is a live
// continuation of this ship's track only if it still belongs to mmsi
// and hasn't been overtaken by a newer update count.
func (db *DB) isNextPathPoint(idx int, mmsi uint32, count int) bool {
	return idx != -1 && db.paths[idx].MMSI == mmsi && db.paths[idx].Count < count
}

// addToPath appends (or coalesces into) a path point for the ship at
// ptr, ported from DB::addToPath: points closer than ~0.001 degrees
// (~100m at the equator) to the previous point are coalesced rather
// than duplicated.
func (db *DB) addToPath(ptr int) {
	s := &db.ships[ptr]
	idx := s.PathPtr
	lat, lon := float32(s.Lat), float32(s.Lon)

	if db.isNextPathPoint(idx, s.MMSI, s.Count) {
		if db.paths[idx].Lat == lat && db.paths[idx].Lon == lon {
			db.paths[idx].Count = s.Count
			return
		}
		next := db.paths[idx].Next
		if db.isNextPathPoint(next, s.MMSI, db.paths[idx].Count) {
			dlat := float64(db.paths[next].Lat) - float64(lat)
			dlon := float64(db.paths[next].Lon) - float64(lon)
			if dlat*dlat+dlon*dlon < 0.000001 {
				db.paths[idx].Lat = lat
				db.paths[idx].Lon = lon
				db.paths[idx].Count = s.Count
				return
			}
		}
	}

	db.paths[db.pathIdx] = PathPoint{Next: idx, Lat: lat, Lon: lon, MMSI: s.MMSI, Count: s.Count}
	s.PathPtr = db.pathIdx
	db.pathIdx = (db.pathIdx + 1) % len(db.paths)
}

// Update applies one decoded AIS message to the vessel database: it
// finds or creates the ship, merges in every field the message type
// carries, recomputes classification, appends a path point for
// position-bearing types, and enriches tag with distance/bearing/lat/
// lon relative to the own position (spec §4.7, ported from the body of
// DB::Receive(const AIS::Message*, TAG&)).
func (db *DB) Update(m *ais.Message, decoded ais.Decoded, tag *stream.TAG) *Ship {
	db.mu.Lock()
	defer db.mu.Unlock()

	ptr := db.findShip(m.MMSI)
	if ptr == -1 {
		ptr = db.createShip()
		db.ships[ptr].MMSI = m.MMSI
		db.ships[ptr].CountryCode = countryCode(m.MMSI)
		db.index.Store(m.MMSI, ptr)
	}
	db.moveShipToFront(ptr)
	s := &db.ships[ptr]

	prevLastSignalUnix := s.LastSignal.Unix()
	prevSpeed := s.Speed

	s.Count++
	s.MsgTypeMask |= 1 << uint(m.Type%64)
	s.LastSignal = time.Unix(m.RxTimeUnix, 0)
	if tag != nil {
		s.Level = tag.Level
		s.PPM = tag.PPM
		switch m.Channel {
		case 'A':
			s.Channels |= 1
		case 'B':
			s.Channels |= 2
		}
	}

	positionUpdated := db.mergeFields(s, m, decoded, prevLastSignalUnix, prevSpeed)
	s.SetType()

	if positionUpdated && ais.PositionBearingTypes[m.Type] {
		db.addToPath(ptr)
	}

	db.enrichTag(s, tag, positionUpdated)
	return s
}

// staleFix reports whether a ship's last known fix is old enough that
// a type-27 long-range position report should be allowed to overwrite
// it, ported verbatim from DB::updateShip (Tracking/DB.cpp):
//
//	timeout = 10*60
//	if speed != undefined && speed != 0:
//	        timeout = max(10, min(timeout, 0.25/speed*3600))
//	allow = rxtime - last_signal > timeout
func staleFix(rxTimeUnix, prevLastSignalUnix int64, prevSpeed float64) bool {
	const defaultTimeout = 10 * 60
	const minTimeout = 10
	timeout := float64(defaultTimeout)
	if prevSpeed != SpeedUndefined && prevSpeed != 0 {
		timeout = 0.25 / prevSpeed * 3600
		if timeout > defaultTimeout {
			timeout = defaultTimeout
		}
		if timeout < minTimeout {
			timeout = minTimeout
		}
	}
	return float64(rxTimeUnix-prevLastSignalUnix) > timeout
}

// mergeFields copies the fields a decoded message carries into s,
// ported from the relevant cases of DB::updateFields. Lat/lon from
// type 27 only overwrite an existing fix when it is absent, already
// approximate, or stale past a speed-dependent timeout (spec §3
// invariant, ported from DB::updateShip's allowApproxLatLon: default
// 10 min, clamped down to however long it takes to travel ~0.25nmi at
// the ship's last known speed, with a 10s floor). prevLastSignalUnix
// and prevSpeed are the ship's last-signal time and speed *before*
// this message's updates are applied, matching the original's
// check-then-overwrite ordering.
func (db *DB) mergeFields(s *Ship, m *ais.Message, decoded ais.Decoded, prevLastSignalUnix int64, prevSpeed float64) (positionUpdated bool) {
	lat, lon, ok := decoded.Position3()
	if ok {
		allowApproximate := m.Type != 27 || !ValidCoord(s.Lat, s.Lon) || s.Approximate || staleFix(m.RxTimeUnix, prevLastSignalUnix, prevSpeed)
		if allowApproximate {
			s.Lat, s.Lon = lat, lon
			s.Approximate = m.Type == 27
			positionUpdated = true
		}
	}

	switch {
	case decoded.Position != nil:
		p := decoded.Position
		s.Status = int(p.NavStatus)
		s.Speed = p.SOG
		s.COG = p.COG
		s.Heading = int(p.Heading)
		s.Validated = p.RAIM
	case decoded.ClassB != nil:
		p := decoded.ClassB
		s.Speed = p.SOG
		s.COG = p.COG
		s.Heading = int(p.Heading)
		if p.ShipName != "" {
			s.ShipName = p.ShipName
			s.ShipType = int(p.ShipType)
		}
	case decoded.StaticVoyage != nil:
		sv := decoded.StaticVoyage
		s.ShipName = sv.ShipName
		s.Callsign = sv.Callsign
		s.ShipType = int(sv.ShipType)
		s.IMO = int(sv.IMO)
		s.ToBow = int(sv.DimBow)
		s.ToStern = int(sv.DimStern)
		s.ToPort = int(sv.DimPort)
		s.ToStarboard = int(sv.DimStarboard)
		s.Draught = sv.Draught
		s.Destination = sv.Destination
		s.Month, s.Day, s.Hour, s.Minute = int(sv.ETAMonth), int(sv.ETADay), int(sv.ETAHour), int(sv.ETAMinute)
	case decoded.StaticData != nil:
		sd := decoded.StaticData
		if sd.PartNumber == 0 {
			s.ShipName = sd.ShipName
		} else {
			s.ShipType = int(sd.ShipType)
			s.Callsign = sd.Callsign
			s.ToBow = int(sd.DimBow)
			s.ToStern = int(sd.DimStern)
			s.ToPort = int(sd.DimPort)
			s.ToStarboard = int(sd.DimStarboard)
		}
	case decoded.AidToNav != nil:
		at := decoded.AidToNav
		s.ShipName = at.Name
		s.ShipType = int(at.AidType)
		s.VirtualAid = at.VirtualAid
	case decoded.SARAircraft != nil:
		sa := decoded.SARAircraft
		s.Speed = float64(sa.SOG)
		s.COG = sa.COG
	case decoded.LongRange != nil:
		lr := decoded.LongRange
		s.Status = int(lr.NavStatus)
		s.Speed = lr.SOG
		s.COG = lr.COG
	}
	return positionUpdated
}

// enrichTag mirrors the tag-side effects of DB::Receive: the tag picks
// up the vessel's distance/bearing from the own position (when known),
// and the lat/lon to report downstream — the fresh fix if this message
// updated position, else the ship's previous fix if that was valid,
// else zero.
func (db *DB) enrichTag(s *Ship, tag *stream.TAG, positionUpdated bool) {
	if tag == nil {
		return
	}
	if ValidCoord(db.ownLat, db.ownLon) && ValidCoord(s.Lat, s.Lon) {
		dist, bearing := DistanceBearing(db.ownLat, db.ownLon, s.Lat, s.Lon)
		s.Distance = dist
		s.Angle = bearing
		tag.Distance = dist
		tag.Bearing = float64(bearing)
	} else {
		s.Distance = DistanceUndefined
		s.Angle = AngleUndefined
		tag.Distance = DistanceUndefined
		tag.Bearing = 0
	}
	if positionUpdated {
		tag.Lat, tag.Lon = s.Lat, s.Lon
	} else if !ValidCoord(tag.Lat, tag.Lon) {
		tag.Lat, tag.Lon = 0, 0
	}
	tag.ShipClass = int(s.ShipClass)
	tag.ShipName = s.ShipName
}

// Count reports how many distinct ships are currently tracked.
func (db *DB) Count() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.count
}

// Capacity reports the fixed ship ring size.
func (db *DB) Capacity() int {
	return len(db.ships)
}

// Get returns a copy of the tracked ship for mmsi, if present.
func (db *DB) Get(mmsi uint32) (Ship, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	ptr := db.findShip(mmsi)
	if ptr == -1 {
		return Ship{}, false
	}
	return db.ships[ptr], true
}

// All returns a snapshot copy of every currently tracked ship, most
// recently updated first.
func (db *DB) All() []Ship {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]Ship, 0, db.count)
	ptr, n := db.first, db.count
	for ptr != -1 && n > 0 {
		out = append(out, db.ships[ptr])
		ptr = db.ships[ptr].Next
		n--
	}
	return out
}

// Path returns the full recorded track for mmsi, oldest point last
// (following the path ring's Next chain, as getSinglePathJSON does).
func (db *DB) Path(mmsi uint32) []PathPoint {
	db.mu.Lock()
	defer db.mu.Unlock()
	ptr := db.findShip(mmsi)
	if ptr == -1 {
		return nil
	}
	var out []PathPoint
	idx := db.ships[ptr].PathPtr
	seen := 0
	for idx != -1 && db.paths[idx].MMSI == mmsi && seen < len(db.paths) {
		out = append(out, db.paths[idx])
		idx = db.paths[idx].Next
		seen++
	}
	return out
}
