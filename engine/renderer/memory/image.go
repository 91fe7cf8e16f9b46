package memory

import (
	"github.com/google/uuid"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
)

// Image is a 2D device image with a host-side mirror. Linear images live in
// CPU visible memory and can be synced from the mirror; optimal images live
// in GPU-only memory.
type Image struct {
	noCopy noCopy

	allocator *Allocator
	handle    gpu.Image
	info      gpu.ImageCreateInfo
	class     Class
	alloc     *allocation
	mirror    []byte
	views     []gpu.ImageView
}

// CreateImage creates an image, deriving its memory class from the tiling.
func (a *Allocator) CreateImage(info gpu.ImageCreateInfo) (*Image, error) {
	if info.Width == 0 || info.Height == 0 {
		return nil, core.ContractViolation("image extent must be positive, got %dx%d", info.Width, info.Height)
	}
	bpp := info.Format.BytesPerPixel()
	if bpp == 0 {
		return nil, core.ContractViolation("image format %s has no known texel size", info.Format)
	}

	class := ClassGPUOnly
	kind := kindOptimal
	if info.Tiling == gpu.ImageTilingLinear {
		class = ClassCPUVisible
		kind = kindLinear
	}

	handle, err := a.device.CreateImage(info)
	if err != nil {
		return nil, core.ResourceCreationFailure(err, "creating %dx%d %s image", info.Width, info.Height, info.Format)
	}

	rec, err := a.allocate(a.device.ImageMemoryRequirements(handle), class, kind, "image")
	if err != nil {
		a.device.DestroyImage(handle)
		return nil, err
	}

	if err := a.device.BindImageMemory(handle, rec.block.memory, rec.offset); err != nil {
		a.device.DestroyImage(handle)
		a.free(rec)
		return nil, core.ResourceCreationFailure(err, "binding image memory")
	}

	return &Image{
		allocator: a,
		handle:    handle,
		info:      info,
		class:     class,
		alloc:     rec,
		mirror:    make([]byte, uint64(info.Width)*uint64(info.Height)*bpp),
	}, nil
}

// DestroyImage releases img's views, API object and memory. Further calls are no-ops.
func (a *Allocator) DestroyImage(img *Image) {
	if img == nil || img.alloc == nil {
		return
	}
	for i := len(img.views) - 1; i >= 0; i-- {
		a.device.DestroyImageView(img.views[i])
	}
	img.views = nil
	a.device.DestroyImage(img.handle)
	a.free(img.alloc)
	img.alloc = nil
	img.handle = 0
}

func (img *Image) Destroy() {
	if img.allocator != nil {
		img.allocator.DestroyImage(img)
	}
}

func (img *Image) Handle() gpu.Image {
	return img.handle
}

func (img *Image) Width() uint32 {
	return img.info.Width
}

func (img *Image) Height() uint32 {
	return img.info.Height
}

func (img *Image) Format() gpu.Format {
	return img.info.Format
}

func (img *Image) Tiling() gpu.ImageTiling {
	return img.info.Tiling
}

func (img *Image) Class() Class {
	return img.class
}

func (img *Image) ID() uuid.UUID {
	if img.alloc == nil {
		return uuid.Nil
	}
	return img.alloc.id
}

// Mirror is the host-side copy of the image contents, width*height*texel size bytes.
func (img *Image) Mirror() []byte {
	return img.mirror
}

// Sync copies the mirror into the image memory. Only linear images can be synced.
func (img *Image) Sync() error {
	if img.alloc == nil {
		return core.ContractViolation("image sync after destroy")
	}
	if img.info.Tiling != gpu.ImageTilingLinear {
		return core.ContractViolation("image sync requires linear tiling, image is %s", img.info.Tiling)
	}

	device := img.allocator.device
	block := img.alloc.block
	data, err := block.Map(device)
	if err != nil {
		return core.ResourceCreationFailure(err, "mapping memory block %d", block.id)
	}
	defer block.Unmap(device)

	copy(data[img.alloc.offset:], img.mirror)
	return nil
}

// CreateView creates a 2D view over the whole image. Views are destroyed with the image.
func (img *Image) CreateView(aspect gpu.ImageAspectFlags) (gpu.ImageView, error) {
	if img.alloc == nil {
		return 0, core.ContractViolation("image view created after destroy")
	}
	view, err := img.allocator.device.CreateImageView(gpu.ImageViewCreateInfo{
		Image:  img.handle,
		Format: img.info.Format,
		Aspect: aspect,
	})
	if err != nil {
		return 0, core.ResourceCreationFailure(err, "creating %s image view", img.info.Format)
	}
	img.views = append(img.views, view)
	return view, nil
}
