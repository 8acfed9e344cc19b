package timewindow

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/interval"
)

// Binary .twd layout, big-endian throughout. The header carries dictionary
// tables of the distinct receivers, events and phases so each 33-byte window
// record can reference them by index:
//
//	uint16 receiver count, uint16 event count, uint16 phase count
//	per receiver: station (8, space-padded) + network (8, space-padded)
//	              + latitude float64 + longitude float64
//	per event:    identity (15, space-padded)
//	per phase:    name (16, space-padded)
//
// followed by one record per window:
//
//	bytes 0-1   receiver index (int16)
//	bytes 2-3   event index (int16)
//	bytes 4-23  ten int16 phase-index slots, -1 when unused
//	byte  24    component code
//	bytes 25-28 start time (float32)
//	bytes 29-32 end time (float32)
//
// This layout is the externally durable contract; widths, ordering and
// rounding must match exactly for interoperability with existing files.
const (
	stationBytes = 8
	networkBytes = 8
	eventBytes   = 15
	phaseBytes   = 16

	receiverEntryBytes = stationBytes + networkBytes + 16 // identity + lat + lon
	recordBytes        = 33

	// MaxTaggedPhases is the per-window phase capacity of the fixed-width
	// record. Windows tagged with more phases are truncated silently; the
	// ceiling is baked into the format and kept for compatibility.
	MaxTaggedPhases = 10
)

var (
	// ErrEmptyCollection is returned when encoding a window set with nothing
	// to index.
	ErrEmptyCollection = errors.New("empty timewindow collection")

	// ErrCorruptFile is returned when a .twd body is not a whole number of
	// fixed-width records.
	ErrCorruptFile = errors.New("corrupt timewindow file")
)

// Encode writes the window collection in .twd form. The output is
// deterministic: dictionaries are sorted by natural ordering and records by
// window identity.
func Encode(w io.Writer, windows []TimeWindow) error {
	if len(windows) == 0 {
		return ErrEmptyCollection
	}

	receivers, events, phases, err := collectDictionaries(windows)
	if err != nil {
		return err
	}

	receiverIndex := make(map[Receiver]int16, len(receivers))
	for i, r := range receivers {
		receiverIndex[r] = int16(i)
	}
	eventIndex := make(map[string]int16, len(events))
	for i, e := range events {
		eventIndex[e] = int16(i)
	}
	phaseIndex := make(map[string]int16, len(phases))
	for i, p := range phases {
		phaseIndex[p] = int16(i)
	}

	var buf bytes.Buffer
	for _, count := range []int{len(receivers), len(events), len(phases)} {
		if err := binary.Write(&buf, binary.BigEndian, uint16(count)); err != nil {
			return err
		}
	}
	for _, r := range receivers {
		buf.WriteString(pad(r.Station, stationBytes))
		buf.WriteString(pad(r.Network, networkBytes))
		if err := binary.Write(&buf, binary.BigEndian, r.Latitude); err != nil {
			return err
		}
		if err := binary.Write(&buf, binary.BigEndian, r.Longitude); err != nil {
			return err
		}
	}
	for _, e := range events {
		buf.WriteString(pad(e, eventBytes))
	}
	for _, p := range phases {
		buf.WriteString(pad(p, phaseBytes))
	}

	sorted := sortedWindows(windows)
	for _, win := range sorted {
		rec := make([]byte, 0, recordBytes)
		rec = binary.BigEndian.AppendUint16(rec, uint16(receiverIndex[win.Receiver]))
		rec = binary.BigEndian.AppendUint16(rec, uint16(eventIndex[win.EventID]))
		for slot := 0; slot < MaxTaggedPhases; slot++ {
			idx := int16(-1)
			if slot < len(win.Phases) {
				idx = phaseIndex[win.Phases[slot]]
			}
			rec = binary.BigEndian.AppendUint16(rec, uint16(idx))
		}
		rec = append(rec, byte(win.Component))
		rec = binary.BigEndian.AppendUint32(rec, math.Float32bits(float32(win.Start)))
		rec = binary.BigEndian.AppendUint32(rec, math.Float32bits(float32(win.End)))
		buf.Write(rec)
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// Decode reads a .twd stream back into a deduplicated, sorted window
// collection.
func Decode(r io.Reader) ([]TimeWindow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	const countsBytes = 6
	if len(data) < countsBytes {
		return nil, fmt.Errorf("%w: %d bytes is too short for a header", ErrCorruptFile, len(data))
	}
	nReceivers := int(binary.BigEndian.Uint16(data[0:2]))
	nEvents := int(binary.BigEndian.Uint16(data[2:4]))
	nPhases := int(binary.BigEndian.Uint16(data[4:6]))

	headerBytes := countsBytes + nReceivers*receiverEntryBytes + nEvents*eventBytes + nPhases*phaseBytes
	if len(data) < headerBytes {
		return nil, fmt.Errorf("%w: header claims %d bytes, file has %d", ErrCorruptFile, headerBytes, len(data))
	}

	offset := countsBytes
	receivers := make([]Receiver, nReceivers)
	for i := range receivers {
		entry := data[offset : offset+receiverEntryBytes]
		receivers[i] = Receiver{
			Station:   unpad(entry[:stationBytes]),
			Network:   unpad(entry[stationBytes : stationBytes+networkBytes]),
			Latitude:  math.Float64frombits(binary.BigEndian.Uint64(entry[16:24])),
			Longitude: math.Float64frombits(binary.BigEndian.Uint64(entry[24:32])),
		}
		offset += receiverEntryBytes
	}
	events := make([]string, nEvents)
	for i := range events {
		events[i] = unpad(data[offset : offset+eventBytes])
		offset += eventBytes
	}
	phases := make([]string, nPhases)
	for i := range phases {
		phases[i] = unpad(data[offset : offset+phaseBytes])
		offset += phaseBytes
	}

	remaining := len(data) - headerBytes
	if remaining%recordBytes != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes is not a multiple of the %d-byte record width",
			ErrCorruptFile, remaining, recordBytes)
	}

	set := NewSet()
	for ; offset < len(data); offset += recordBytes {
		rec := data[offset : offset+recordBytes]
		recvIdx := int16(binary.BigEndian.Uint16(rec[0:2]))
		eventIdx := int16(binary.BigEndian.Uint16(rec[2:4]))
		if int(recvIdx) >= nReceivers || int(eventIdx) >= nEvents || recvIdx < 0 || eventIdx < 0 {
			return nil, fmt.Errorf("%w: record references receiver %d / event %d outside the header dictionaries",
				ErrCorruptFile, recvIdx, eventIdx)
		}

		var names []string
		for slot := 0; slot < MaxTaggedPhases; slot++ {
			idx := int16(binary.BigEndian.Uint16(rec[4+2*slot : 6+2*slot]))
			if idx < 0 {
				continue
			}
			if int(idx) >= nPhases {
				return nil, fmt.Errorf("%w: record references phase %d outside the header dictionary",
					ErrCorruptFile, idx)
			}
			names = append(names, phases[idx])
		}

		start := float64(math.Float32frombits(binary.BigEndian.Uint32(rec[25:29])))
		end := float64(math.Float32frombits(binary.BigEndian.Uint32(rec[29:33])))
		iv, err := interval.New(start, end)
		if err != nil {
			return nil, fmt.Errorf("%w: record window ends before it starts", ErrCorruptFile)
		}
		set.Add(TimeWindow{
			Interval:  iv,
			Receiver:  receivers[recvIdx],
			EventID:   events[eventIdx],
			Component: Component(rec[24]),
			Phases:    names,
		})
	}
	return set.Windows(), nil
}

func collectDictionaries(windows []TimeWindow) ([]Receiver, []string, []string, error) {
	receiverSet := make(map[Receiver]struct{})
	eventSet := make(map[string]struct{})
	phaseSet := make(map[string]struct{})
	for _, w := range windows {
		if len(w.Receiver.Station) > stationBytes || len(w.Receiver.Network) > networkBytes {
			return nil, nil, nil, fmt.Errorf("receiver %q exceeds the %d+%d byte identity width",
				w.Receiver.ID(), stationBytes, networkBytes)
		}
		if len(w.EventID) > eventBytes {
			return nil, nil, nil, fmt.Errorf("event %q exceeds the %d byte width", w.EventID, eventBytes)
		}
		receiverSet[w.Receiver] = struct{}{}
		eventSet[w.EventID] = struct{}{}
		for _, p := range w.Phases {
			if len(p) > phaseBytes {
				return nil, nil, nil, fmt.Errorf("phase %q exceeds the %d byte width", p, phaseBytes)
			}
			phaseSet[p] = struct{}{}
		}
	}

	receivers := make([]Receiver, 0, len(receiverSet))
	for r := range receiverSet {
		receivers = append(receivers, r)
	}
	sort.Slice(receivers, func(i, j int) bool {
		if receivers[i].Station != receivers[j].Station {
			return receivers[i].Station < receivers[j].Station
		}
		return receivers[i].Network < receivers[j].Network
	})

	events := sortedKeys(eventSet)
	phases := sortedKeys(phaseSet)

	for name, n := range map[string]int{"receiver": len(receivers), "event": len(events), "phase": len(phases)} {
		if n > math.MaxInt16 {
			return nil, nil, nil, fmt.Errorf("%d distinct %ss exceed the int16 index space", n, name)
		}
	}
	return receivers, events, phases, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedWindows(windows []TimeWindow) []TimeWindow {
	set := NewSet()
	for _, w := range windows {
		set.Add(w)
	}
	return set.Windows()
}

func pad(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}

func unpad(b []byte) string {
	return string(bytes.TrimRight(b, " "))
}
