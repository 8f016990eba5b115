// Package tag defines the DICOM tags used by the CT, RT Structure Set,
// RT Plan and RT Dose readers along with the tag dictionary.
package tag

// Tag represents a DICOM tag with Group and Element
type Tag struct {
	Group   uint16
	Element uint16
}

// New creates a new Tag
func New(group, element uint16) Tag {
	return Tag{Group: group, Element: element}
}

// Less orders tags by group then element
func (t Tag) Less(other Tag) bool {
	if t.Group != other.Group {
		return t.Group < other.Group
	}
	return t.Element < other.Element
}

// IsPrivate returns true if this is a private tag (odd group number)
func (t Tag) IsPrivate() bool {
	return t.Group%2 == 1
}

// IsFileMeta returns true if this tag is in the File Meta Information group
func (t Tag) IsFileMeta() bool {
	return t.Group == 0x0002
}

// IsItemOrDelimiter returns true for the (FFFE,xxxx) item and delimitation tags
func (t Tag) IsItemOrDelimiter() bool {
	return t.Group == 0xFFFE
}

// File Meta Information (Group 0002)
var (
	FileMetaInformationGroupLength = Tag{0x0002, 0x0000}
	FileMetaInformationVersion     = Tag{0x0002, 0x0001}
	MediaStorageSOPClassUID        = Tag{0x0002, 0x0002}
	MediaStorageSOPInstanceUID     = Tag{0x0002, 0x0003}
	TransferSyntaxUID              = Tag{0x0002, 0x0010}
	ImplementationClassUID         = Tag{0x0002, 0x0012}
	ImplementationVersionName      = Tag{0x0002, 0x0013}
)

// Patient, Study, Series and SOP Common
var (
	SpecificCharacterSet = Tag{0x0008, 0x0005}
	SOPClassUID          = Tag{0x0008, 0x0016}
	SOPInstanceUID       = Tag{0x0008, 0x0018}
	Modality             = Tag{0x0008, 0x0060}
	SeriesDescription    = Tag{0x0008, 0x103E}
	PatientName          = Tag{0x0010, 0x0010}
	PatientID            = Tag{0x0010, 0x0020}
	StudyInstanceUID     = Tag{0x0020, 0x000D}
	SeriesInstanceUID    = Tag{0x0020, 0x000E}
	InstanceNumber       = Tag{0x0020, 0x0013}
	FrameOfReferenceUID  = Tag{0x0020, 0x0052}
)

// Image Plane and Image Pixel
var (
	SliceThickness            = Tag{0x0018, 0x0050}
	ImagePositionPatient      = Tag{0x0020, 0x0032}
	ImageOrientationPatient   = Tag{0x0020, 0x0037}
	SamplesPerPixel           = Tag{0x0028, 0x0002}
	PhotometricInterpretation = Tag{0x0028, 0x0004}
	NumberOfFrames            = Tag{0x0028, 0x0008}
	Rows                      = Tag{0x0028, 0x0010}
	Columns                   = Tag{0x0028, 0x0011}
	PixelSpacing              = Tag{0x0028, 0x0030}
	BitsAllocated             = Tag{0x0028, 0x0100}
	BitsStored                = Tag{0x0028, 0x0101}
	HighBit                   = Tag{0x0028, 0x0102}
	PixelRepresentation       = Tag{0x0028, 0x0103}
	RescaleIntercept          = Tag{0x0028, 0x1052}
	RescaleSlope              = Tag{0x0028, 0x1053}
	PixelData                 = Tag{0x7FE0, 0x0010}
)

// RT Dose
var (
	DoseUnits             = Tag{0x3004, 0x0002}
	DoseType              = Tag{0x3004, 0x0004}
	DoseSummationType     = Tag{0x3004, 0x000A}
	GridFrameOffsetVector = Tag{0x3004, 0x000C}
	DoseGridScaling       = Tag{0x3004, 0x000E}
)

// RT Structure Set and RT ROI Observations
var (
	StructureSetROISequence   = Tag{0x3006, 0x0020}
	ROINumber                 = Tag{0x3006, 0x0022}
	ROIName                   = Tag{0x3006, 0x0026}
	ROIDisplayColor           = Tag{0x3006, 0x002A}
	ROIContourSequence        = Tag{0x3006, 0x0039}
	ContourSequence           = Tag{0x3006, 0x0040}
	ContourGeometricType      = Tag{0x3006, 0x0042}
	NumberOfContourPoints     = Tag{0x3006, 0x0046}
	ContourData               = Tag{0x3006, 0x0050}
	RTROIObservationsSequence = Tag{0x3006, 0x0080}
	ReferencedROINumber       = Tag{0x3006, 0x0084}
	RTROIInterpretedType      = Tag{0x3006, 0x00A4}
)

// RT Brachy Application Setups
var (
	ControlPointIndex            = Tag{0x300A, 0x0112}
	BrachyTreatmentTechnique     = Tag{0x300A, 0x0200}
	BrachyTreatmentType          = Tag{0x300A, 0x0202}
	SourceSequence               = Tag{0x300A, 0x0210}
	SourceNumber                 = Tag{0x300A, 0x0212}
	SourceType                   = Tag{0x300A, 0x0214}
	SourceManufacturer           = Tag{0x300A, 0x0216}
	SourceIsotopeName            = Tag{0x300A, 0x0226}
	SourceIsotopeHalfLife        = Tag{0x300A, 0x0228}
	ReferenceAirKermaRate        = Tag{0x300A, 0x022A}
	ApplicationSetupSequence     = Tag{0x300A, 0x0230}
	ApplicationSetupNumber       = Tag{0x300A, 0x0234}
	ChannelSequence              = Tag{0x300A, 0x0280}
	ChannelNumber                = Tag{0x300A, 0x0282}
	ChannelTotalTime             = Tag{0x300A, 0x0286}
	ReferencedSourceNumber       = Tag{0x300C, 0x000E}
	FinalCumulativeTimeWeight    = Tag{0x300A, 0x02C8}
	BrachyControlPointSequence   = Tag{0x300A, 0x02D0}
	ControlPointRelativePosition = Tag{0x300A, 0x02D2}
	ControlPoint3DPosition       = Tag{0x300A, 0x02D4}
	CumulativeTimeWeight         = Tag{0x300A, 0x02D6}
)

// Sequence delimiters
var (
	Item                     = Tag{0xFFFE, 0xE000}
	ItemDelimitationItem     = Tag{0xFFFE, 0xE00D}
	SequenceDelimitationItem = Tag{0xFFFE, 0xE0DD}
)
