package content

// ImageInput is the body of an image metadata update. Only the alt text is editable.
type ImageInput struct {
	AltText Field[string] `json:"alt_text"`
}

func (in ImageInput) Changes() map[string]any {
	c := changeSet{}
	c.optional("alt_text", in.AltText)
	return c
}
