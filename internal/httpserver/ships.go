package httpserver

import (
	"time"

	"github.com/AIS-Hub/AISHub/internal/vessel"
)

// shipJSON is the /ships.json per-vessel payload, field-for-field from
// DB::getShipJSON in Tracking/DB.cpp — a flat struct rather than the
// original's hand-built string so encoding/json handles null-vs-zero
// via pointer fields the way the original used the literal "null".
type shipJSON struct {
	MMSI  uint32   `json:"mmsi"`
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	Dist  *float64 `json:"distance"`
	Brg   *int     `json:"bearing"`
	Level *float32 `json:"level"`

	Count    int      `json:"count"`
	PPM      *float32 `json:"ppm"`
	Group    uint64   `json:"group_mask"`
	Approx   bool     `json:"approx"`
	Heading  *int     `json:"heading"`
	COG      *float64 `json:"cog"`
	Speed    *float64 `json:"speed"`
	ToBow    *int     `json:"to_bow"`
	ToStern  *int     `json:"to_stern"`
	ToStbd   *int     `json:"to_starboard"`
	ToPort   *int     `json:"to_port"`
	ShipType int      `json:"shiptype"`
	MMSIType int      `json:"mmsi_type"`
	ShipCls  int      `json:"shipclass"`
	Validate bool     `json:"validated"`
	MsgType  uint64   `json:"msg_type"`
	Channels byte     `json:"channels"`
	Country  string   `json:"country"`
	Status   int      `json:"status"`
	Draught  *float64 `json:"draught"`
	ETAMonth *int     `json:"eta_month"`
	ETADay   *int     `json:"eta_day"`
	ETAHour  *int     `json:"eta_hour"`
	ETAMin   *int     `json:"eta_minute"`
	IMO      *int     `json:"imo"`

	Callsign    string `json:"callsign"`
	ShipName    string `json:"shipname"`
	Destination string `json:"destination"`
	LastSignal  int64  `json:"last_signal"`
}

// toShipJSON converts a vessel.Ship snapshot, undoing the sentinel
// "undefined" values back into JSON null the way getShipJSON's
// ternaries do.
func toShipJSON(s vessel.Ship, now time.Time) shipJSON {
	out := shipJSON{
		MMSI:     s.MMSI,
		Count:    s.Count,
		Group:    s.GroupMask,
		Approx:   s.Approximate,
		ShipType: s.ShipType,
		MMSIType: int(s.MMSIType),
		ShipCls:  int(s.ShipClass),
		Validate: s.Validated,
		MsgType:  s.MsgTypeMask,
		Channels: s.Channels,
		Country:  s.CountryCode,
		Status:   s.Status,

		Callsign:    s.Callsign,
		ShipName:    shipNameWithVirtualAidSuffix(s),
		Destination: s.Destination,
		LastSignal:  int64(now.Sub(s.LastSignal).Seconds()),
	}

	if vessel.ValidCoord(s.Lat, s.Lon) {
		lat, lon := s.Lat, s.Lon
		out.Lat, out.Lon = &lat, &lon
		if s.Distance != vessel.DistanceUndefined {
			dist, brg := s.Distance, s.Angle
			out.Dist, out.Brg = &dist, &brg
		}
	}
	if s.Level != 0 {
		lvl := s.Level
		out.Level = &lvl
	}
	if s.PPM != 0 {
		ppm := s.PPM
		out.PPM = &ppm
	}
	if s.Heading != vessel.HeadingUndefined {
		h := s.Heading
		out.Heading = &h
	}
	if s.COG != vessel.CourseUndefined {
		c := s.COG
		out.COG = &c
	}
	if s.Speed != vessel.SpeedUndefined {
		sp := s.Speed
		out.Speed = &sp
	}
	if s.ToBow != vessel.DimensionUndefined {
		v := s.ToBow
		out.ToBow = &v
	}
	if s.ToStern != vessel.DimensionUndefined {
		v := s.ToStern
		out.ToStern = &v
	}
	if s.ToStarboard != vessel.DimensionUndefined {
		v := s.ToStarboard
		out.ToStbd = &v
	}
	if s.ToPort != vessel.DimensionUndefined {
		v := s.ToPort
		out.ToPort = &v
	}
	if s.Draught != vessel.DraughtUndefined {
		v := s.Draught
		out.Draught = &v
	}
	if s.Month != vessel.ETAMonthUndefined {
		v := s.Month
		out.ETAMonth = &v
	}
	if s.Day != vessel.ETADayUndefined {
		v := s.Day
		out.ETADay = &v
	}
	if s.Hour != vessel.ETAHourUndefined {
		v := s.Hour
		out.ETAHour = &v
	}
	if s.Minute != vessel.ETAMinuteUndefined {
		v := s.Minute
		out.ETAMin = &v
	}
	if s.IMO != vessel.IMOUndefined {
		v := s.IMO
		out.IMO = &v
	}
	return out
}

func shipNameWithVirtualAidSuffix(s vessel.Ship) string {
	if s.VirtualAid {
		return s.ShipName + " [V]"
	}
	return s.ShipName
}

// shipsResponse is the /ships.json envelope.
type shipsResponse struct {
	Count int        `json:"count"`
	Ships []shipJSON `json:"ships"`
	Error bool       `json:"error"`
}
