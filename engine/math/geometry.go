package math

// Geometry is an indexed triangle list.
type Geometry struct {
	Name     string
	Vertices []Vertex3D
	Indices  []uint32
	Extents  Extents3D
}

// GenerateNormals assigns each triangle's face normal to its three vertices.
func GenerateNormals(vertices []Vertex3D, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)
		normal := edge1.Cross(edge2).Normalized()

		vertices[i0].Normal = normal
		vertices[i1].Normal = normal
		vertices[i2].Normal = normal
	}
}

// GenerateTangents computes per-triangle tangents from positions and texture
// coordinates. W holds the bitangent handedness.
func GenerateTangents(vertices []Vertex3D, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)

		du1 := vertices[i1].Texcoord.X - vertices[i0].Texcoord.X
		dv1 := vertices[i1].Texcoord.Y - vertices[i0].Texcoord.Y
		du2 := vertices[i2].Texcoord.X - vertices[i0].Texcoord.X
		dv2 := vertices[i2].Texcoord.Y - vertices[i0].Texcoord.Y

		det := du1*dv2 - du2*dv1
		if det == 0 {
			// Degenerate UVs.
			continue
		}
		fc := 1 / det

		tangent := Vec3{
			X: fc * (dv2*edge1.X - dv1*edge2.X),
			Y: fc * (dv2*edge1.Y - dv1*edge2.Y),
			Z: fc * (dv2*edge1.Z - dv1*edge2.Z),
		}.Normalized()

		handedness := float32(1)
		if dv1*du2-dv2*du1 < 0 {
			handedness = -1
		}

		t4 := tangent.ToVec4(handedness)
		vertices[i0].Tangent = t4
		vertices[i1].Tangent = t4
		vertices[i2].Tangent = t4
	}
}

// GeneratePlane builds a plane on XZ facing +Y, centred on the origin, split
// into xSegments by zSegments quads. Zero sizes default to one.
func GeneratePlane(name string, width, depth float32, xSegments, zSegments uint32, tileX, tileY float32) *Geometry {
	width = orOne(width)
	depth = orOne(depth)
	tileX = orOne(tileX)
	tileY = orOne(tileY)
	xSegments = max(xSegments, 1)
	zSegments = max(zSegments, 1)

	quads := xSegments * zSegments
	g := &Geometry{
		Name:     name,
		Vertices: make([]Vertex3D, quads*4),
		Indices:  make([]uint32, quads*6),
		Extents: Extents3D{
			Min: Vec3{-width * 0.5, 0, -depth * 0.5},
			Max: Vec3{width * 0.5, 0, depth * 0.5},
		},
	}

	segWidth := width / float32(xSegments)
	segDepth := depth / float32(zSegments)
	up := NewVec3Up()
	white := Vec4{1, 1, 1, 1}

	for z := uint32(0); z < zSegments; z++ {
		for x := uint32(0); x < xSegments; x++ {
			minX := float32(x)*segWidth - width*0.5
			minZ := float32(z)*segDepth - depth*0.5
			maxX := minX + segWidth
			maxZ := minZ + segDepth
			minU := float32(x) / float32(xSegments) * tileX
			minV := float32(z) / float32(zSegments) * tileY
			maxU := float32(x+1) / float32(xSegments) * tileX
			maxV := float32(z+1) / float32(zSegments) * tileY

			quad := z*xSegments + x
			vo := quad * 4
			corners := [4]struct {
				pos Vec3
				uv  Vec2
			}{
				{Vec3{minX, 0, maxZ}, Vec2{minU, maxV}},
				{Vec3{maxX, 0, minZ}, Vec2{maxU, minV}},
				{Vec3{minX, 0, minZ}, Vec2{minU, minV}},
				{Vec3{maxX, 0, maxZ}, Vec2{maxU, maxV}},
			}
			for i, c := range corners {
				g.Vertices[vo+uint32(i)] = Vertex3D{Position: c.pos, Normal: up, Texcoord: c.uv, Colour: white}
			}
			writeQuadIndices(g.Indices[quad*6:], vo)
		}
	}

	GenerateTangents(g.Vertices, g.Indices)
	return g
}

// GenerateCube builds an axis aligned box centred on the origin with four
// vertices per face. Zero sizes default to one.
func GenerateCube(name string, width, height, depth, tileX, tileY float32) *Geometry {
	hw := orOne(width) * 0.5
	hh := orOne(height) * 0.5
	hd := orOne(depth) * 0.5
	tileX = orOne(tileX)
	tileY = orOne(tileY)

	g := &Geometry{
		Name:     name,
		Vertices: make([]Vertex3D, 0, 24),
		Indices:  make([]uint32, 36),
		Extents:  Extents3D{Min: Vec3{-hw, -hh, -hd}, Max: Vec3{hw, hh, hd}},
	}

	faces := [6]struct {
		normal  Vec3
		corners [4]Vec3
	}{
		{Vec3{0, 0, 1}, [4]Vec3{{-hw, -hh, hd}, {hw, hh, hd}, {-hw, hh, hd}, {hw, -hh, hd}}},
		{Vec3{0, 0, -1}, [4]Vec3{{hw, -hh, -hd}, {-hw, hh, -hd}, {hw, hh, -hd}, {-hw, -hh, -hd}}},
		{Vec3{-1, 0, 0}, [4]Vec3{{-hw, -hh, -hd}, {-hw, hh, hd}, {-hw, hh, -hd}, {-hw, -hh, hd}}},
		{Vec3{1, 0, 0}, [4]Vec3{{hw, -hh, hd}, {hw, hh, -hd}, {hw, hh, hd}, {hw, -hh, -hd}}},
		{Vec3{0, -1, 0}, [4]Vec3{{hw, -hh, hd}, {-hw, -hh, -hd}, {hw, -hh, -hd}, {-hw, -hh, hd}}},
		{Vec3{0, 1, 0}, [4]Vec3{{-hw, hh, hd}, {hw, hh, -hd}, {-hw, hh, -hd}, {hw, hh, hd}}},
	}
	uvs := [4]Vec2{{0, 0}, {tileX, tileY}, {0, tileY}, {tileX, 0}}
	white := Vec4{1, 1, 1, 1}

	for f, face := range faces {
		for i, pos := range face.corners {
			g.Vertices = append(g.Vertices, Vertex3D{Position: pos, Normal: face.normal, Texcoord: uvs[i], Colour: white})
		}
		writeQuadIndices(g.Indices[f*6:], uint32(f*4))
	}

	GenerateTangents(g.Vertices, g.Indices)
	return g
}

// writeQuadIndices writes two counter-clockwise triangles for the quad whose
// first vertex is at base.
func writeQuadIndices(dst []uint32, base uint32) {
	dst[0] = base + 0
	dst[1] = base + 1
	dst[2] = base + 2
	dst[3] = base + 0
	dst[4] = base + 3
	dst[5] = base + 1
}

func orOne(v float32) float32 {
	if v == 0 {
		return 1
	}
	return v
}

// Streams splits the vertices into the separate position, normal, tangent
// and texture coordinate streams the shaders consume.
func (g *Geometry) Streams() (positions, normals, tangents []Vec4, texcoords []Vec2) {
	n := len(g.Vertices)
	positions = make([]Vec4, n)
	normals = make([]Vec4, n)
	tangents = make([]Vec4, n)
	texcoords = make([]Vec2, n)
	for i, v := range g.Vertices {
		positions[i] = v.Position.ToVec4(1)
		normals[i] = v.Normal.ToVec4(0)
		tangents[i] = v.Tangent
		texcoords[i] = v.Texcoord
	}
	return positions, normals, tangents, texcoords
}
