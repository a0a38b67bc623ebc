package constant

// TemplateDirName is the sub directory under the catalog root that holds
// one folder per entry.
const TemplateDirName = "template"

// ReservedDirName is the folder kept inside the template directory as a
// design sample; it never becomes a catalog entry.
const ReservedDirName = "模板"

// Metadata file names, tried in priority order.
const (
	MetadataFileJSON   = "信息.json"
	MetadataFileLegacy = "信息.txt"
)

// Fixed image file names inside an entry folder.
const (
	ImageFront   = "主图正面.jpg"
	ImageBack    = "主图背面.jpg"
	ImageDetail1 = "细节图一.jpg"
	ImageDetail2 = "细节图二.jpg"
)

// ImageSlot identifies one of the four image positions of an entry.
type ImageSlot string

const (
	SlotFront   ImageSlot = "front"
	SlotBack    ImageSlot = "back"
	SlotDetail1 ImageSlot = "detail1"
	SlotDetail2 ImageSlot = "detail2"
)

// ImageSlots lists the slots in display order.
var ImageSlots = []ImageSlot{SlotFront, SlotBack, SlotDetail1, SlotDetail2}

// ImageFileNames maps each slot to its fixed on-disk file name.
var ImageFileNames = map[ImageSlot]string{
	SlotFront:   ImageFront,
	SlotBack:    ImageBack,
	SlotDetail1: ImageDetail1,
	SlotDetail2: ImageDetail2,
}
