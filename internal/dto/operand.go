package dto

import (
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"
)

func NumberOperand(v float64) Operand {
	return Operand{Number: &v}
}

func NameOperand(name string) Operand {
	return Operand{Name: name}
}

func (o Operand) String() string {
	if o.Number != nil {
		return strconv.FormatFloat(*o.Number, 'f', -1, 64)
	}
	return o.Name
}

// UnmarshalJSON accepts a bare number, a bare string or the object form.
func (o *Operand) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*o = NumberOperand(num)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*o = NameOperand(name)
		return nil
	}
	type plain Operand
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = Operand(p)
	return nil
}

func (o Operand) MarshalJSON() ([]byte, error) {
	if o.Number != nil {
		return json.Marshal(*o.Number)
	}
	return json.Marshal(o.Name)
}

// UnmarshalYAML mirrors UnmarshalJSON for strategy files.
func (o *Operand) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Tag == "!!int" || node.Tag == "!!float" {
			num, err := strconv.ParseFloat(node.Value, 64)
			if err != nil {
				return err
			}
			*o = NumberOperand(num)
			return nil
		}
		*o = NameOperand(node.Value)
		return nil
	}
	type plain Operand
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*o = Operand(p)
	return nil
}

func (o Operand) MarshalYAML() (any, error) {
	if o.Number != nil {
		return *o.Number, nil
	}
	return o.Name, nil
}
