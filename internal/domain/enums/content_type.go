package enums

type ContentType string

const (
	ContentTypePost   ContentType = "Post"
	ContentTypeStory  ContentType = "Story"
	ContentTypeReel   ContentType = "Reel"
	ContentTypeTikTok ContentType = "TikTok"
)

// ContentTypes lists the known types in display order.
func ContentTypes() []ContentType {
	return []ContentType{ContentTypePost, ContentTypeStory, ContentTypeReel, ContentTypeTikTok}
}

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypePost, ContentTypeStory, ContentTypeReel, ContentTypeTikTok:
		return true
	}
	return false
}
