package gpu

import "fmt"

// Opaque API object handles. Zero is the null handle.
type (
	Buffer              uint64
	Image               uint64
	ImageView           uint64
	Sampler             uint64
	DeviceMemory        uint64
	DescriptorPool      uint64
	DescriptorSetLayout uint64
	DescriptorSet       uint64
	ShaderModule        uint64
	PipelineLayout      uint64
	Pipeline            uint64
	CommandBuffer       uint64
	Fence               uint64
)

type DescriptorType int

const (
	DescriptorTypeUniformBuffer DescriptorType = iota
	DescriptorTypeUniformBufferDynamic
	DescriptorTypeStorageBuffer
	DescriptorTypeStorageBufferDynamic
	DescriptorTypeCombinedImageSampler
)

// DescriptorTypes lists every descriptor type the descriptor pool reserves room for.
var DescriptorTypes = []DescriptorType{
	DescriptorTypeUniformBuffer,
	DescriptorTypeUniformBufferDynamic,
	DescriptorTypeStorageBuffer,
	DescriptorTypeStorageBufferDynamic,
	DescriptorTypeCombinedImageSampler,
}

// IsDynamic reports whether a bind of this descriptor consumes a dynamic offset.
func (t DescriptorType) IsDynamic() bool {
	return t == DescriptorTypeUniformBufferDynamic || t == DescriptorTypeStorageBufferDynamic
}

func (t DescriptorType) IsBuffer() bool {
	return t != DescriptorTypeCombinedImageSampler
}

func (t DescriptorType) String() string {
	switch t {
	case DescriptorTypeUniformBuffer:
		return "uniform_buffer"
	case DescriptorTypeUniformBufferDynamic:
		return "uniform_buffer_dynamic"
	case DescriptorTypeStorageBuffer:
		return "storage_buffer"
	case DescriptorTypeStorageBufferDynamic:
		return "storage_buffer_dynamic"
	case DescriptorTypeCombinedImageSampler:
		return "combined_image_sampler"
	}
	return fmt.Sprintf("DescriptorType(%d)", int(t))
}

type ShaderStageFlags uint32

const (
	ShaderStageVertex ShaderStageFlags = 1 << iota
	ShaderStageFragment
	ShaderStageCompute

	ShaderStageAllGraphics = ShaderStageVertex | ShaderStageFragment
)

type BufferUsageFlags uint32

const (
	BufferUsageTransferSrc BufferUsageFlags = 1 << iota
	BufferUsageTransferDst
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageIndex
	BufferUsageVertex
)

type ImageUsageFlags uint32

const (
	ImageUsageTransferSrc ImageUsageFlags = 1 << iota
	ImageUsageTransferDst
	ImageUsageSampled
	ImageUsageColorAttachment
	ImageUsageDepthStencilAttachment
)

type Format int

const (
	FormatUndefined Format = iota
	FormatR8G8B8A8Unorm
	FormatR8G8B8A8Srgb
	FormatB8G8R8A8Unorm
	FormatB8G8R8A8Srgb
	FormatR32G32Sfloat
	FormatR32G32B32Sfloat
	FormatR32G32B32A32Sfloat
	FormatD32Sfloat
	FormatD32SfloatS8Uint
	FormatD24UnormS8Uint
)

// BytesPerPixel is the host-side texel size of a format, 0 when unknown.
func (f Format) BytesPerPixel() uint64 {
	switch f {
	case FormatR8G8B8A8Unorm, FormatR8G8B8A8Srgb, FormatB8G8R8A8Unorm, FormatB8G8R8A8Srgb:
		return 4
	case FormatR32G32Sfloat:
		return 8
	case FormatR32G32B32Sfloat:
		return 12
	case FormatR32G32B32A32Sfloat:
		return 16
	case FormatD32Sfloat, FormatD24UnormS8Uint:
		return 4
	case FormatD32SfloatS8Uint:
		return 8
	}
	return 0
}

func (f Format) IsDepth() bool {
	return f == FormatD32Sfloat || f == FormatD32SfloatS8Uint || f == FormatD24UnormS8Uint
}

func (f Format) HasStencil() bool {
	return f == FormatD32SfloatS8Uint || f == FormatD24UnormS8Uint
}

func (f Format) String() string {
	switch f {
	case FormatUndefined:
		return "undefined"
	case FormatR8G8B8A8Unorm:
		return "r8g8b8a8_unorm"
	case FormatR8G8B8A8Srgb:
		return "r8g8b8a8_srgb"
	case FormatB8G8R8A8Unorm:
		return "b8g8r8a8_unorm"
	case FormatB8G8R8A8Srgb:
		return "b8g8r8a8_srgb"
	case FormatR32G32Sfloat:
		return "r32g32_sfloat"
	case FormatR32G32B32Sfloat:
		return "r32g32b32_sfloat"
	case FormatR32G32B32A32Sfloat:
		return "r32g32b32a32_sfloat"
	case FormatD32Sfloat:
		return "d32_sfloat"
	case FormatD32SfloatS8Uint:
		return "d32_sfloat_s8_uint"
	case FormatD24UnormS8Uint:
		return "d24_unorm_s8_uint"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat is the inverse of Format.String.
func ParseFormat(s string) (Format, bool) {
	for f := FormatUndefined; f <= FormatD24UnormS8Uint; f++ {
		if f.String() == s {
			return f, true
		}
	}
	return FormatUndefined, false
}

type ImageTiling int

const (
	ImageTilingOptimal ImageTiling = iota
	ImageTilingLinear
)

func (t ImageTiling) String() string {
	if t == ImageTilingLinear {
		return "linear"
	}
	return "optimal"
}

type ImageLayout int

const (
	ImageLayoutUndefined ImageLayout = iota
	ImageLayoutGeneral
	ImageLayoutColorAttachmentOptimal
	ImageLayoutDepthStencilAttachmentOptimal
	ImageLayoutShaderReadOnlyOptimal
	ImageLayoutTransferDstOptimal
	ImageLayoutPresentSrc
)

type ImageAspectFlags uint32

const (
	ImageAspectColor ImageAspectFlags = 1 << iota
	ImageAspectDepth
	ImageAspectStencil
)

// MemoryPropertyFlags share their bit values with VkMemoryPropertyFlagBits.
type MemoryPropertyFlags uint32

const (
	MemoryPropertyDeviceLocal  MemoryPropertyFlags = 0x1
	MemoryPropertyHostVisible  MemoryPropertyFlags = 0x2
	MemoryPropertyHostCoherent MemoryPropertyFlags = 0x4
	MemoryPropertyHostCached   MemoryPropertyFlags = 0x8
)

func (f MemoryPropertyFlags) Has(other MemoryPropertyFlags) bool {
	return f&other == other
}

type MemoryType struct {
	PropertyFlags MemoryPropertyFlags
	HeapIndex     uint32
}

type MemoryHeap struct {
	Size        uint64
	DeviceLocal bool
}

type MemoryProperties struct {
	Types []MemoryType
	Heaps []MemoryHeap
}

type MemoryRequirements struct {
	Size           uint64
	Alignment      uint64
	MemoryTypeBits uint32
}

type Limits struct {
	BufferImageGranularity          uint64
	MinUniformBufferOffsetAlignment uint64
	MinStorageBufferOffsetAlignment uint64
	NonCoherentAtomSize             uint64
	MaxBoundDescriptorSets          uint32
}

type Extent2D struct {
	Width  uint32
	Height uint32
}

type Rect2D struct {
	X, Y   int32
	Extent Extent2D
}

type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

type BufferCreateInfo struct {
	Size  uint64
	Usage BufferUsageFlags
}

// ImageCreateInfo describes a single-mip, single-layer, single-sample 2D
// image created in the undefined layout with exclusive sharing.
type ImageCreateInfo struct {
	Width  uint32
	Height uint32
	Format Format
	Tiling ImageTiling
	Usage  ImageUsageFlags
}

type ImageViewCreateInfo struct {
	Image  Image
	Format Format
	Aspect ImageAspectFlags
}

type SamplerCreateInfo struct {
	LinearFilter  bool
	MaxAnisotropy float32
}

type DescriptorPoolSize struct {
	Type  DescriptorType
	Count uint32
}

type DescriptorPoolCreateInfo struct {
	MaxSets   uint32
	PoolSizes []DescriptorPoolSize
	// FreeDescriptorSet allows returning individual sets to the pool.
	FreeDescriptorSet bool
}

type DescriptorSetLayoutBinding struct {
	Binding uint32
	Type    DescriptorType
	Count   uint32
	Stages  ShaderStageFlags
}

type DescriptorBufferInfo struct {
	Buffer Buffer
	Offset uint64
	Range  uint64
}

type DescriptorImageInfo struct {
	Sampler Sampler
	View    ImageView
	Layout  ImageLayout
}

// WriteDescriptorSet carries either BufferInfo or ImageInfo depending on Type.
type WriteDescriptorSet struct {
	Set          DescriptorSet
	Binding      uint32
	ArrayElement uint32
	Type         DescriptorType
	BufferInfo   []DescriptorBufferInfo
	ImageInfo    []DescriptorImageInfo
}

type PushConstantRange struct {
	Stages ShaderStageFlags
	Offset uint32
	Size   uint32
}

type PipelineLayoutCreateInfo struct {
	SetLayouts         []DescriptorSetLayout
	PushConstantRanges []PushConstantRange
}

type PrimitiveTopology int

const (
	PrimitiveTopologyTriangleList PrimitiveTopology = iota
	PrimitiveTopologyTriangleStrip
	PrimitiveTopologyLineList
	PrimitiveTopologyPointList
)

type PolygonMode int

const (
	PolygonModeFill PolygonMode = iota
	PolygonModeLine
	PolygonModePoint
)

type CullMode int

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
	CullModeFrontAndBack
)

type FrontFace int

const (
	FrontFaceCounterClockwise FrontFace = iota
	FrontFaceClockwise
)

type CompareOp int

const (
	CompareOpNever CompareOp = iota
	CompareOpLess
	CompareOpEqual
	CompareOpLessOrEqual
	CompareOpGreater
	CompareOpNotEqual
	CompareOpGreaterOrEqual
	CompareOpAlways
)

type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
)

type BlendOp int

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
)

type ColorComponentFlags uint32

const (
	ColorComponentR ColorComponentFlags = 1 << iota
	ColorComponentG
	ColorComponentB
	ColorComponentA

	ColorComponentAll = ColorComponentR | ColorComponentG | ColorComponentB | ColorComponentA
)

type DynamicState int

const (
	DynamicStateViewport DynamicState = iota
	DynamicStateScissor
	DynamicStateLineWidth
)

type VertexInputRate int

const (
	VertexInputRateVertex VertexInputRate = iota
	VertexInputRateInstance
)

type IndexType int

const (
	IndexTypeUint16 IndexType = iota
	IndexTypeUint32
)

type ShaderStageInfo struct {
	Stage      ShaderStageFlags
	Module     ShaderModule
	EntryPoint string
}

type VertexBinding struct {
	Binding   uint32
	Stride    uint32
	InputRate VertexInputRate
}

type VertexAttribute struct {
	Location uint32
	Binding  uint32
	Format   Format
	Offset   uint32
}

type RasterizationState struct {
	PolygonMode PolygonMode
	CullMode    CullMode
	FrontFace   FrontFace
	LineWidth   float32
}

type DepthStencilState struct {
	TestEnable  bool
	WriteEnable bool
	CompareOp   CompareOp
}

type ColorBlendAttachment struct {
	BlendEnable         bool
	SrcColorBlendFactor BlendFactor
	DstColorBlendFactor BlendFactor
	ColorBlendOp        BlendOp
	SrcAlphaBlendFactor BlendFactor
	DstAlphaBlendFactor BlendFactor
	AlphaBlendOp        BlendOp
	WriteMask           ColorComponentFlags
}

// GraphicsPipelineCreateInfo names attachment formats instead of a render
// pass; the backend supplies a compatible one.
type GraphicsPipelineCreateInfo struct {
	Stages                []ShaderStageInfo
	VertexBindings        []VertexBinding
	VertexAttributes      []VertexAttribute
	Topology              PrimitiveTopology
	Rasterization         RasterizationState
	Samples               uint32
	DepthStencil          DepthStencilState
	ColorBlendAttachments []ColorBlendAttachment
	DynamicStates         []DynamicState
	Layout                PipelineLayout
	ColorFormats          []Format
	DepthFormat           Format
}

type PipelineStageFlags uint32

const (
	PipelineStageTopOfPipe PipelineStageFlags = 1 << iota
	PipelineStageEarlyFragmentTests
	PipelineStageLateFragmentTests
	PipelineStageColorAttachmentOutput
	PipelineStageBottomOfPipe
)

type AccessFlags uint32

const (
	AccessColorAttachmentWrite AccessFlags = 1 << iota
	AccessDepthStencilAttachmentRead
	AccessDepthStencilAttachmentWrite
)

type ImageBarrier struct {
	Image     Image
	Aspect    ImageAspectFlags
	OldLayout ImageLayout
	NewLayout ImageLayout
	SrcAccess AccessFlags
	DstAccess AccessFlags
}

type AttachmentLoadOp int

const (
	AttachmentLoadOpLoad AttachmentLoadOp = iota
	AttachmentLoadOpClear
	AttachmentLoadOpDontCare
)

type AttachmentStoreOp int

const (
	AttachmentStoreOpStore AttachmentStoreOp = iota
	AttachmentStoreOpDontCare
)

type RenderingAttachment struct {
	View       ImageView
	Layout     ImageLayout
	LoadOp     AttachmentLoadOp
	StoreOp    AttachmentStoreOp
	ClearColor [4]float32
	ClearDepth float32
}

type RenderingInfo struct {
	Area             Rect2D
	ColorAttachments []RenderingAttachment
	DepthAttachment  *RenderingAttachment
}

type CommandBufferUsageFlags uint32

const (
	CommandBufferUsageOneTimeSubmit CommandBufferUsageFlags = 1 << iota
	CommandBufferUsageSimultaneousUse
)
