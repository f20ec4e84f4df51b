package deck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadFile reads a deck from a JSON file.
func ReadFile(path string) (*Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open deck: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a deck from JSON of the form
//
//	{"lead": "<road>", "load": {"<road>": <file>, ...}}
func Decode(r io.Reader) (*Deck, error) {
	var raw struct {
		Lead string                     `json:"lead"`
		Load map[string]json.RawMessage `json:"load"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode deck: %w", err)
	}

	d := &Deck{
		Lead:  raw.Lead,
		Files: make(map[string]*File, len(raw.Load)),
	}
	for road, data := range raw.Load {
		file, err := DecodeFile(data)
		if err != nil {
			return nil, fmt.Errorf("file %s: %w", road, err)
		}
		if file.Road == "" {
			file.Road = road
		}
		d.Files[road] = file
	}
	return d, nil
}

type rawFile struct {
	Road string            `json:"road"`
	Mint string            `json:"mint"`
	Load []*Load           `json:"load"`
	Task []json.RawMessage `json:"task"`
	Form []json.RawMessage `json:"form"`
	Zone []json.RawMessage `json:"zone"`
	Stem json.RawMessage   `json:"stem"`
	Lace json.RawMessage   `json:"lace"`
	Test []*Test           `json:"test"`
}

// DecodeFile decodes one compilation unit.
func DecodeFile(data []byte) (*File, error) {
	var raw rawFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	file := &File{
		Road: raw.Road,
		Kind: Kind(raw.Mint),
		Load: raw.Load,
		Test: raw.Test,
	}
	if file.Kind == "" {
		file.Kind = KindBase
	}

	for _, t := range raw.Task {
		task, err := decodeTask(t)
		if err != nil {
			return nil, err
		}
		file.Task = append(file.Task, task)
	}
	for _, f := range raw.Form {
		form, err := decodeForm(f)
		if err != nil {
			return nil, err
		}
		file.Form = append(file.Form, form)
	}
	zones, err := decodeZones(raw.Zone)
	if err != nil {
		return nil, err
	}
	file.Zone = zones

	stems, err := orderedObject(raw.Stem)
	if err != nil {
		return nil, fmt.Errorf("stem: %w", err)
	}
	for _, s := range stems {
		bond, err := DecodeBond(s.Value)
		if err != nil {
			return nil, fmt.Errorf("stem %s: %w", s.Name, err)
		}
		file.Stem = append(file.Stem, &Stem{Name: s.Name, Bond: bond})
	}

	laces, err := orderedObject(raw.Lace)
	if err != nil {
		return nil, fmt.Errorf("lace: %w", err)
	}
	for _, l := range laces {
		value, err := decodeValue(l.Value)
		if err != nil {
			return nil, fmt.Errorf("lace %s: %w", l.Name, err)
		}
		file.Lace = append(file.Lace, &Lace{Name: l.Name, Value: value})
	}

	return file, nil
}

type rawTask struct {
	Form string            `json:"form"`
	Name string            `json:"name"`
	Link []*Param          `json:"link"`
	Zone []json.RawMessage `json:"zone"`
	Wait bool              `json:"wait"`
}

func decodeTask(data []byte) (*Task, error) {
	var raw rawTask
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	zones, err := decodeZones(raw.Zone)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", raw.Name, err)
	}
	return &Task{
		Name: raw.Name,
		Link: raw.Link,
		Zone: zones,
		Wait: raw.Wait,
		Loan: raw.Form == "task-loan",
	}, nil
}

func decodeForm(data []byte) (*Form, error) {
	var raw struct {
		Name string            `json:"name"`
		Link []*Param          `json:"link"`
		Task []json.RawMessage `json:"task"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	form := &Form{Name: raw.Name, Link: raw.Link}
	for _, t := range raw.Task {
		task, err := decodeTask(t)
		if err != nil {
			return nil, fmt.Errorf("form %s: %w", raw.Name, err)
		}
		form.Task = append(form.Task, task)
	}
	return form, nil
}

func decodeZones(raws []json.RawMessage) ([]Zone, error) {
	var zones []Zone
	for _, r := range raws {
		z, err := DecodeZone(r)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// DecodeZone decodes a statement node by its form tag. Unknown tags
// decode to *UnknownZone.
func DecodeZone(data []byte) (Zone, error) {
	var head struct {
		Form string          `json:"form"`
		Nest json.RawMessage `json:"nest"`
		Bond json.RawMessage `json:"bond"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("zone: %w", err)
	}

	switch head.Form {
	case "host":
		var named struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &named); err != nil {
			return nil, fmt.Errorf("host: %w", err)
		}
		host := &Host{Name: named.Name}
		if len(head.Bond) > 0 && string(head.Bond) != "null" {
			bond, err := DecodeBond(head.Bond)
			if err != nil {
				return nil, err
			}
			host.Bond = bond
		}
		return host, nil
	case "save":
		ref, err := decodeRef(head.Nest)
		if err != nil {
			return nil, fmt.Errorf("save: %w", err)
		}
		bond, err := DecodeBond(head.Bond)
		if err != nil {
			return nil, err
		}
		return &Save{Nest: ref, Bond: bond}, nil
	case "turn":
		bond, err := DecodeBond(head.Bond)
		if err != nil {
			return nil, err
		}
		return &Turn{Bond: bond}, nil
	case "call":
		return decodeCall(data)
	default:
		return &UnknownZone{Form: head.Form}, nil
	}
}

// DecodeBond decodes an expression node. Objects with a string form tag
// are tagged variants; arrays and untagged objects fall back to List and
// Record; anything else is a Scalar.
func DecodeBond(data []byte) (Bond, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty bond")
	}

	switch data[0] {
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, err
		}
		list := &List{}
		for _, r := range raws {
			item, err := DecodeBond(r)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		}
		return list, nil
	case '{':
		var head struct {
			Form json.RawMessage `json:"form"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			return nil, err
		}
		var form string
		if len(head.Form) == 0 || json.Unmarshal(head.Form, &form) != nil {
			return decodeRecord(data, DecodeBond)
		}
		return decodeTaggedBond(form, data)
	default:
		return decodeScalar(data)
	}
}

func decodeTaggedBond(form string, data []byte) (Bond, error) {
	switch form {
	case "text":
		var raw struct {
			Text json.RawMessage `json:"text"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		parts, err := decodeCord(raw.Text)
		if err != nil {
			return nil, err
		}
		return &Text{Parts: parts}, nil
	case "size":
		var raw struct {
			Size json.Number `json:"size"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &Size{Raw: raw.Size.String()}, nil
	case "link":
		var raw struct {
			Link json.RawMessage `json:"link"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		ref, err := decodeRef(raw.Link)
		if err != nil {
			return nil, fmt.Errorf("link: %w", err)
		}
		return &Link{Ref: ref}, nil
	case "call":
		return decodeCall(data)
	case "task":
		task, err := decodeTask(data)
		if err != nil {
			return nil, err
		}
		return &TaskBond{Task: task}, nil
	case "make":
		var raw struct {
			Bind []json.RawMessage `json:"bind"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		binds, err := decodeBinds(raw.Bind)
		if err != nil {
			return nil, err
		}
		return &Make{Bind: binds}, nil
	case "loan":
		var raw struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &Loan{Name: raw.Name}, nil
	case "loan-nest", "read-nest":
		var raw struct {
			Nest json.RawMessage `json:"nest"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		nest, err := decodeNest(raw.Nest)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", form, err)
		}
		if form == "loan-nest" {
			return &LoanNest{Nest: nest}, nil
		}
		return &ReadNest{Nest: nest}, nil
	default:
		return &UnknownBond{Form: form}, nil
	}
}

// decodeCord accepts either a plain string or a list of fragments, each
// a string or an object with a text field.
func decodeCord(data json.RawMessage) ([]string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return []string{s}, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}
	parts := make([]string, 0, len(raws))
	for _, r := range raws {
		r = bytes.TrimSpace(r)
		if len(r) > 0 && r[0] == '"' {
			var s string
			if err := json.Unmarshal(r, &s); err != nil {
				return nil, err
			}
			parts = append(parts, s)
			continue
		}
		var frag struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(r, &frag); err != nil {
			return nil, fmt.Errorf("text fragment: %w", err)
		}
		parts = append(parts, frag.Text)
	}
	return parts, nil
}

func decodeCall(data []byte) (*Call, error) {
	var raw struct {
		Name json.RawMessage   `json:"name"`
		Bind []json.RawMessage `json:"bind"`
		Hook []struct {
			Link []*Param          `json:"link"`
			Zone []json.RawMessage `json:"zone"`
		} `json:"hook"`
		Wait bool `json:"wait"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("call: %w", err)
	}

	call := &Call{Wait: raw.Wait}
	callee, err := decodeCallee(raw.Name)
	if err != nil {
		return nil, err
	}
	call.Name = callee

	binds, err := decodeBinds(raw.Bind)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", callee, err)
	}
	call.Bind = binds

	for _, h := range raw.Hook {
		zones, err := decodeZones(h.Zone)
		if err != nil {
			return nil, fmt.Errorf("call %s hook: %w", callee, err)
		}
		call.Hook = append(call.Hook, &Hook{Link: h.Link, Zone: zones})
	}
	return call, nil
}

func decodeCallee(data json.RawMessage) (Callee, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Callee{}, nil
	}
	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return Callee{}, err
		}
		return Callee{Name: name}, nil
	}

	var wrapped struct {
		Nest json.RawMessage `json:"nest"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return Callee{}, fmt.Errorf("callee: %w", err)
	}
	if len(wrapped.Nest) > 0 {
		data = wrapped.Nest
	}
	nest, err := decodeNest(data)
	if err != nil {
		return Callee{}, fmt.Errorf("callee: %w", err)
	}
	return Callee{Path: nest}, nil
}

func decodeBinds(raws []json.RawMessage) ([]*Bind, error) {
	var binds []*Bind
	for _, r := range raws {
		var raw struct {
			Name string          `json:"name"`
			Bond json.RawMessage `json:"bond"`
		}
		if err := json.Unmarshal(r, &raw); err != nil {
			return nil, err
		}
		bond, err := DecodeBond(raw.Bond)
		if err != nil {
			return nil, fmt.Errorf("bind %s: %w", raw.Name, err)
		}
		binds = append(binds, &Bind{Name: raw.Name, Bond: bond})
	}
	return binds, nil
}

type rawStep struct {
	Form string            `json:"form"`
	Name string            `json:"name"`
	Root bool              `json:"root"`
	Link []json.RawMessage `json:"link"`
}

// decodeRef decodes a host reference, a single site or a nest.
func decodeRef(data json.RawMessage) (*Ref, error) {
	var raw rawStep
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch raw.Form {
	case "host":
		return &Ref{Host: raw.Name}, nil
	case "site":
		return &Ref{Nest: &Nest{Steps: []*Step{{Name: raw.Name, Root: raw.Root}}}}, nil
	case "nest":
		nest, err := nestFromRaw(raw)
		if err != nil {
			return nil, err
		}
		return &Ref{Nest: nest}, nil
	default:
		return nil, fmt.Errorf("unknown reference form %q", raw.Form)
	}
}

func decodeNest(data json.RawMessage) (*Nest, error) {
	var raw rawStep
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Form == "site" {
		return &Nest{Steps: []*Step{{Name: raw.Name, Root: raw.Root}}}, nil
	}
	return nestFromRaw(raw)
}

func nestFromRaw(raw rawStep) (*Nest, error) {
	nest := &Nest{}
	for _, l := range raw.Link {
		var step rawStep
		if err := json.Unmarshal(l, &step); err != nil {
			return nil, err
		}
		switch step.Form {
		case "site", "":
			nest.Steps = append(nest.Steps, &Step{Name: step.Name, Root: step.Root})
		case "nest":
			inner, err := nestFromRaw(step)
			if err != nil {
				return nil, err
			}
			nest.Steps = append(nest.Steps, &Step{Nest: inner})
		default:
			return nil, fmt.Errorf("unknown nest step form %q", step.Form)
		}
	}
	return nest, nil
}

// decodeValue decodes an untagged generic value: form keys carry no
// meaning here.
func decodeValue(data []byte) (Bond, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &Scalar{}, nil
	}
	switch data[0] {
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, err
		}
		list := &List{}
		for _, r := range raws {
			item, err := decodeValue(r)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		}
		return list, nil
	case '{':
		return decodeRecord(data, decodeValue)
	default:
		return decodeScalar(data)
	}
}

func decodeRecord(data []byte, decode func([]byte) (Bond, error)) (Bond, error) {
	fields, err := orderedObject(data)
	if err != nil {
		return nil, err
	}
	rec := &Record{}
	for _, f := range fields {
		value, err := decode(f.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		rec.Fields = append(rec.Fields, &Field{Name: f.Name, Value: value})
	}
	return rec, nil
}

func decodeScalar(data []byte) (Bond, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return &Scalar{Value: v}, nil
}

type rawField struct {
	Name  string
	Value json.RawMessage
}

// orderedObject splits a JSON object into its fields in source order.
// A missing or null object yields no fields.
func orderedObject(data []byte) ([]rawField, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var fields []rawField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, rawField{Name: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}
