package spec

// StringOrList unmarshals a YAML scalar string (move_card's single "to")
// or a sequence of strings (deal_cards' "to" list) into one slice, so
// SetupStep doesn't need two differently-named fields for the same key.
type StringOrList []string

func (s *StringOrList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = []string{single}
		return nil
	}
	var list []string
	if err := unmarshal(&list); err != nil {
		return err
	}
	*s = list
	return nil
}
