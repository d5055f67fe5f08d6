package vessel

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// persistMagic/persistVersion tag the binary snapshot format so Load
// can refuse a file from an incompatible build rather than silently
// misparsing it, ported in spirit from DB::getBinary/Serialize (which
// the original streams to the HTTP API rather than to disk; this core
// adds the magic/version header for a standalone save file).
const (
	persistMagic   uint32 = 0x41495346 // "AISF"
	persistVersion uint32 = 1
)

// Save writes every currently tracked ship to w in the binary snapshot
// format, ported field-for-field from Ship::Serialize.
func (db *DB) Save(w io.Writer) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.BigEndian, persistMagic); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.BigEndian, persistVersion); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.BigEndian, uint32(db.count)); err != nil {
		return err
	}

	ptr, n := db.first, db.count
	for ptr != -1 && n > 0 {
		if err := writeShip(bw, &db.ships[ptr]); err != nil {
			return err
		}
		ptr = db.ships[ptr].Next
		n--
	}
	return bw.Flush()
}

func writeShip(w io.Writer, s *Ship) error {
	fields := []any{
		s.MMSI,
		float32(s.Lat), float32(s.Lon),
		float32(s.Distance), float32(s.Angle), float32(s.Level),
		int32(s.Count), float32(s.PPM),
		int32(s.Status), int32(s.Heading),
		float32(s.COG), float32(s.Speed),
		int32(s.ToBow), int32(s.ToStern), int32(s.ToStarboard), int32(s.ToPort),
		s.LastGroupMask, s.GroupMask,
		int32(s.ShipType), int32(s.ShipClass), int32(s.MMSIType),
		s.MsgTypeMask,
		s.Channels,
		float32(s.Draught),
		int32(s.Month), int32(s.Day), int32(s.Hour), int32(s.Minute),
		int32(s.IMO),
		int64(s.LastSignal.Unix()),
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.BigEndian, f); err != nil {
			return err
		}
	}
	for _, s2 := range []string{s.Callsign, s.ShipName, s.Destination} {
		if err := writeString(w, s2); err != nil {
			return err
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Load replaces the DB's tracked ships with the snapshot read from r,
// rebuilding the MRU list and mmsi index fresh. Path history is not
// persisted (spec §4.7: paths are a bounded in-memory cache, not
// durable state).
func (db *DB) Load(r io.Reader) error {
	br := bufio.NewReader(r)
	var magic, version, count uint32
	if err := binary.Read(br, binary.BigEndian, &magic); err != nil {
		return err
	}
	if magic != persistMagic {
		return fmt.Errorf("vessel: bad snapshot magic %#x", magic)
	}
	if err := binary.Read(br, binary.BigEndian, &version); err != nil {
		return err
	}
	if version != persistVersion {
		return fmt.Errorf("vessel: unsupported snapshot version %d", version)
	}
	if err := binary.Read(br, binary.BigEndian, &count); err != nil {
		return err
	}
	if int(count) > len(db.ships) {
		return fmt.Errorf("vessel: snapshot has %d ships, capacity is %d", count, len(db.ships))
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	// Reset the rings field by field: assigning a whole fresh DB would
	// overwrite db.mu while it is held.
	fresh := NewDB(len(db.ships), len(db.paths))
	db.ships, db.first, db.last, db.count = fresh.ships, fresh.first, fresh.last, fresh.count
	db.paths, db.pathIdx, db.index = fresh.paths, fresh.pathIdx, fresh.index
	for i := uint32(0); i < count; i++ {
		s, err := readShip(br)
		if err != nil {
			return err
		}
		ptr := db.createShip()
		*s2(&db.ships[ptr], s)
		db.index.Store(s.MMSI, ptr)
		db.moveShipToFront(ptr)
	}
	return nil
}

// s2 copies every field of src into dst except the MRU-list linkage
// (Prev/Next), which createShip/moveShipToFront manage independently,
// and dst's PathPtr.
func s2(dst *Ship, src *Ship) *Ship {
	prev, next, pathPtr := dst.Prev, dst.Next, dst.PathPtr
	*dst = *src
	dst.Prev, dst.Next, dst.PathPtr = prev, next, pathPtr
	return dst
}

func readShip(r io.Reader) (*Ship, error) {
	s := NewShip(0)
	var mmsi uint32
	var lat, lon, distance, level, ppm, cog, speed, draught float32
	var count, status, heading, toBow, toStern, toStarboard, toPort int32
	var shipType, shipClass, mmsiType int32
	var msgTypeMask, lastGroup, groupMask uint64
	var channels byte
	var month, day, hour, minute, imo int32
	var lastSignal int64
	var angle float32

	fields := []any{
		&mmsi,
		&lat, &lon,
		&distance, &angle, &level,
		&count, &ppm,
		&status, &heading,
		&cog, &speed,
		&toBow, &toStern, &toStarboard, &toPort,
		&lastGroup, &groupMask,
		&shipType, &shipClass, &mmsiType,
		&msgTypeMask,
		&channels,
		&draught,
		&month, &day, &hour, &minute,
		&imo,
		&lastSignal,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.BigEndian, f); err != nil {
			return nil, err
		}
	}
	callsign, err := readString(r)
	if err != nil {
		return nil, err
	}
	shipName, err := readString(r)
	if err != nil {
		return nil, err
	}
	destination, err := readString(r)
	if err != nil {
		return nil, err
	}

	s.MMSI = mmsi
	s.Lat, s.Lon = float64(lat), float64(lon)
	s.Distance, s.Angle, s.Level = float64(distance), int(angle), level
	s.Count, s.PPM = int(count), ppm
	s.Status, s.Heading = int(status), int(heading)
	s.COG, s.Speed = float64(cog), float64(speed)
	s.ToBow, s.ToStern, s.ToStarboard, s.ToPort = int(toBow), int(toStern), int(toStarboard), int(toPort)
	s.LastGroupMask, s.GroupMask = lastGroup, groupMask
	s.ShipType, s.ShipClass, s.MMSIType = int(shipType), ShippingClass(shipClass), MMSIClass(mmsiType)
	s.MsgTypeMask = msgTypeMask
	s.Channels = channels
	s.Draught = float64(draught)
	s.Month, s.Day, s.Hour, s.Minute = int(month), int(day), int(hour), int(minute)
	s.IMO = int(imo)
	s.LastSignal = time.Unix(lastSignal, 0)
	s.Callsign, s.ShipName, s.Destination = callsign, shipName, destination
	return s, nil
}
