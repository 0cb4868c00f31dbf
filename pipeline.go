// Copyright 2026 The Massif Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package massif

import (
	"honnef.co/go/wgpu"

	"honnef.co/go/massif/glyph"
)

// PipelineKind identifies one of the renderer's render pipelines. The
// numeric order is the draw order within a frame: planar glyphs first, then
// SDF glyphs, quads, and textures.
type PipelineKind int

const (
	PipelinePlanarGlyph PipelineKind = iota
	PipelineSdfGlyph
	PipelineQuad
	PipelineTexture

	numPipelineKinds
)

func (k PipelineKind) String() string {
	switch k {
	case PipelinePlanarGlyph:
		return "planar glyph"
	case PipelineSdfGlyph:
		return "SDF glyph"
	case PipelineQuad:
		return "quad"
	case PipelineTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// glyphPipelineFor routes rasterization parameters to the glyph pipeline
// that draws them.
func glyphPipelineFor(p glyph.Param) PipelineKind {
	if p.PreferSDF {
		return PipelineSdfGlyph
	}
	return PipelinePlanarGlyph
}

const quadShaderSrc = `
	struct Camera {
		matrix: mat4x4<f32>,
	}

	@group(0) @binding(0)
	var<uniform> camera: Camera;

	struct VertexOutput {
		@builtin(position) position: vec4<f32>,
		@location(0) color: vec4<f32>,
	}

	@vertex
	fn vs_main(
		@location(0) position: vec3<f32>,
		@location(1) color: vec4<f32>,
	) -> VertexOutput {
		var out: VertexOutput;
		out.position = camera.matrix * vec4(position, 1.0);
		out.color = color;
		return out;
	}

	@fragment
	fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
		return in.color;
	}
`

const glyphShaderSrc = `
	struct Camera {
		matrix: mat4x4<f32>,
	}

	struct AtlasSize {
		size: vec2<f32>,
	}

	@group(0) @binding(0)
	var<uniform> camera: Camera;
	@group(1) @binding(0)
	var atlas: texture_2d<f32>;
	@group(1) @binding(1)
	var<uniform> atlas_size: AtlasSize;
	@group(1) @binding(2)
	var atlas_sampler: sampler;

	struct VertexOutput {
		@builtin(position) position: vec4<f32>,
		@location(0) uv: vec2<f32>,
		@location(1) color: vec4<f32>,
	}

	@vertex
	fn vs_main(
		@location(0) position: vec3<f32>,
		@location(1) atlas_pos: vec2<f32>,
		@location(2) color: vec4<f32>,
	) -> VertexOutput {
		var out: VertexOutput;
		out.position = camera.matrix * vec4(position, 1.0);
		out.uv = atlas_pos / atlas_size.size;
		out.color = color;
		return out;
	}

	@fragment
	fn fs_planar(in: VertexOutput) -> @location(0) vec4<f32> {
		let coverage = textureSample(atlas, atlas_sampler, in.uv).r;
		return in.color * coverage;
	}

	@fragment
	fn fs_sdf(in: VertexOutput) -> @location(0) vec4<f32> {
		let dist = textureSample(atlas, atlas_sampler, in.uv).r;
		let w = fwidth(dist);
		let coverage = smoothstep(0.5 - w, 0.5 + w, dist);
		return in.color * coverage;
	}
`

const textureShaderSrc = `
	struct Camera {
		matrix: mat4x4<f32>,
	}

	@group(0) @binding(0)
	var<uniform> camera: Camera;
	@group(1) @binding(0)
	var tex: texture_2d<f32>;
	@group(1) @binding(1)
	var tex_sampler: sampler;

	struct VertexOutput {
		@builtin(position) position: vec4<f32>,
		@location(0) uv: vec2<f32>,
	}

	@vertex
	fn vs_main(
		@location(0) position: vec3<f32>,
		@location(1) uv: vec2<f32>,
	) -> VertexOutput {
		var out: VertexOutput;
		out.position = camera.matrix * vec4(position, 1.0);
		out.uv = uv;
		return out;
	}

	@fragment
	fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
		return textureSample(tex, tex_sampler, in.uv);
	}
`

// pipelines owns the renderer's GPU pipeline state: bind group layouts, the
// shared sampler, and one render pipeline per kind, all targeting one
// surface format.
type pipelines struct {
	cameraLayout  *wgpu.BindGroupLayout
	glyphLayout   *wgpu.BindGroupLayout
	textureLayout *wgpu.BindGroupLayout
	sampler       *wgpu.Sampler
	pipelines     [numPipelineKinds]*wgpu.RenderPipeline
}

func newPipelines(dev *wgpu.Device, format wgpu.TextureFormat) *pipelines {
	p := &pipelines{}

	p.cameraLayout = dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "camera layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: &wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   64,
				},
			},
		},
	})
	p.glyphLayout = dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "glyph atlas layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: &wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
					Multisampled:  false,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: &wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 16,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: &wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	p.textureLayout = dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "texture layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: &wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
					Multisampled:  false,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: &wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})

	p.sampler = dev.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        "batch sampler",
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeLinear,
	})

	glyphShader := dev.CreateShaderModule(wgpu.ShaderModuleDescriptor{
		Label:  "glyph shaders",
		Source: wgpu.ShaderSourceWGSL(glyphShaderSrc),
	})
	quadShader := dev.CreateShaderModule(wgpu.ShaderModuleDescriptor{
		Label:  "quad shaders",
		Source: wgpu.ShaderSourceWGSL(quadShaderSrc),
	})
	textureShader := dev.CreateShaderModule(wgpu.ShaderModuleDescriptor{
		Label:  "texture shaders",
		Source: wgpu.ShaderSourceWGSL(textureShaderSrc),
	})

	glyphVertexLayout := []wgpu.VertexBufferLayout{
		{
			ArrayStride: glyphVertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 20, ShaderLocation: 2},
			},
		},
	}
	quadVertexLayout := []wgpu.VertexBufferLayout{
		{
			ArrayStride: colorVertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
			},
		},
	}
	textureVertexLayout := []wgpu.VertexBufferLayout{
		{
			ArrayStride: textureVertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
			},
		},
	}

	glyphPipeLayout := dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "glyph pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.cameraLayout, p.glyphLayout},
	})
	quadPipeLayout := dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "quad pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.cameraLayout},
	})
	texturePipeLayout := dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "texture pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.cameraLayout, p.textureLayout},
	})

	// All pipelines blend premultiplied alpha over the target.
	blend := &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}

	create := func(label string, layout *wgpu.PipelineLayout, shader *wgpu.ShaderModule, fsEntry string, buffers []wgpu.VertexBufferLayout) *wgpu.RenderPipeline {
		return dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  label,
			Layout: layout,
			Vertex: &wgpu.VertexState{
				Module:     shader,
				EntryPoint: "vs_main",
				Buffers:    buffers,
			},
			Fragment: &wgpu.FragmentState{
				Module:     shader,
				EntryPoint: fsEntry,
				Targets: []wgpu.ColorTargetState{
					{
						Format:    format,
						Blend:     blend,
						WriteMask: wgpu.ColorWriteMaskAll,
					},
				},
			},
			Primitive: &wgpu.PrimitiveState{
				Topology:         wgpu.PrimitiveTopologyTriangleList,
				StripIndexFormat: ^wgpu.IndexFormat(0),
				FrontFace:        wgpu.FrontFaceCCW,
				CullMode:         wgpu.CullModeNone,
			},
			Multisample: &wgpu.MultisampleState{
				Count: 1,
				Mask:  ^uint32(0),
			},
		})
	}

	p.pipelines[PipelinePlanarGlyph] = create("planar glyph pipeline", glyphPipeLayout, glyphShader, "fs_planar", glyphVertexLayout)
	p.pipelines[PipelineSdfGlyph] = create("SDF glyph pipeline", glyphPipeLayout, glyphShader, "fs_sdf", glyphVertexLayout)
	p.pipelines[PipelineQuad] = create("quad pipeline", quadPipeLayout, quadShader, "fs_main", quadVertexLayout)
	p.pipelines[PipelineTexture] = create("texture pipeline", texturePipeLayout, textureShader, "fs_main", textureVertexLayout)
	return p
}
