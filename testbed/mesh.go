package testbed

import (
	"unsafe"

	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/frame"
	"github.com/spaghettifunk/lumen/engine/renderer/gpu"
	"github.com/spaghettifunk/lumen/engine/renderer/memory"
)

const streamCount = 4

// mesh is one model: four vertex streams, an index buffer and a transform.
type mesh struct {
	name       string
	streams    [streamCount]*memory.Buffer
	indices    *memory.Buffer
	indexCount uint32
	transform  *math.Transform
	color      math.Vec4
	params     math.Vec4
}

// uploadMesh copies g into host visible vertex and index buffers.
func uploadMesh(allocator *memory.Allocator, g *math.Geometry) (*mesh, error) {
	m := &mesh{
		name:       g.Name,
		indexCount: uint32(len(g.Indices)),
		transform:  math.NewTransform(),
		color:      math.NewVec4(1, 1, 1, 1),
	}

	positions, normals, tangents, texcoords := g.Streams()
	var err error
	if m.streams[0], err = vertexBuffer(allocator, positions); err != nil {
		m.destroy()
		return nil, err
	}
	if m.streams[1], err = vertexBuffer(allocator, normals); err != nil {
		m.destroy()
		return nil, err
	}
	if m.streams[2], err = vertexBuffer(allocator, tangents); err != nil {
		m.destroy()
		return nil, err
	}
	if m.streams[3], err = vertexBuffer(allocator, texcoords); err != nil {
		m.destroy()
		return nil, err
	}

	m.indices, err = allocator.CreateBuffer(uint64(len(g.Indices))*4, gpu.BufferUsageIndex, memory.ClassCPUVisible)
	if err != nil {
		m.destroy()
		return nil, err
	}
	if err := memory.CopyValues(m.indices, g.Indices, 0); err != nil {
		m.destroy()
		return nil, err
	}
	return m, nil
}

func vertexBuffer[T any](allocator *memory.Allocator, values []T) (*memory.Buffer, error) {
	size := uint64(len(values)) * sizeOf[T]()
	buf, err := allocator.CreateBuffer(size, gpu.BufferUsageVertex, memory.ClassCPUVisible)
	if err != nil {
		return nil, err
	}
	if err := memory.CopyValues(buf, values, 0); err != nil {
		buf.Destroy()
		return nil, err
	}
	return buf, nil
}

func (m *mesh) Draw(rec *frame.Recorder) error {
	buffers := make([]gpu.Buffer, streamCount)
	for i, s := range m.streams {
		buffers[i] = s.Handle()
	}
	rec.BindVertexBuffers(0, buffers, make([]uint64, streamCount))
	rec.BindIndexBuffer(m.indices.Handle(), 0, gpu.IndexTypeUint32)
	rec.DrawIndexed(m.indexCount, 1, 0, 0, 0)
	return nil
}

func (m *mesh) destroy() {
	for i, s := range m.streams {
		if s != nil {
			s.Destroy()
			m.streams[i] = nil
		}
	}
	if m.indices != nil {
		m.indices.Destroy()
		m.indices = nil
	}
}

func sizeOf[T any]() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}
