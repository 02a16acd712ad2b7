package renderer

import (
	"errors"
	"fmt"

	"github.com/rajveermalviya/go-webgpu/wgpu"

	"starfield/scene"
	"starfield/shaders"
)

// AlphaBlending composites source over destination by source alpha.
var AlphaBlending = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactor_SrcAlpha,
		DstFactor: wgpu.BlendFactor_OneMinusSrcAlpha,
		Operation: wgpu.BlendOperation_Add,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactor_One,
		DstFactor: wgpu.BlendFactor_OneMinusSrcAlpha,
		Operation: wgpu.BlendOperation_Add,
	},
}

// Attribute is one vertex input backed by its own buffer.
type Attribute struct {
	Name     string
	Location uint32
	Format   wgpu.VertexFormat
	Stride   uint64
	StepMode wgpu.VertexStepMode
	Data     []byte
}

// DrawPassDescriptor is everything needed to build a draw pass. Shader
// holds both stages, with entry points shaders.VertexEntry and
// shaders.FragmentEntry.
type DrawPassDescriptor struct {
	Label      string
	Shader     string
	Attributes []Attribute
	Elements   []uint16 // optional index list
	Count      uint32   // vertices, or indices when Elements is set
	Instances  uint32   // 0 draws a single instance
	Topology   wgpu.PrimitiveTopology
	Blend      *wgpu.BlendState
	DepthWrite bool
	Texture    *Texture // bound at bindings 1 and 2 when set
	PointSize  float32  // in pixels, for point sprite programs
	Uniforms   scene.UniformFunc
}

// DrawPass is a compiled, immutable unit of GPU work.
type DrawPass struct {
	label      string
	ctx        *Context
	pipeline   *wgpu.RenderPipeline
	bindGroup  *wgpu.BindGroup
	vertexBufs []*wgpu.Buffer
	indexBuf   *wgpu.Buffer
	uniformBuf *wgpu.Buffer
	count      uint32
	instances  uint32
	pointSize  float32
	uniforms   scene.UniformFunc
}

// Label names the pass in logs.
func (p *DrawPass) Label() string { return p.label }

// CompileDrawPass validates the shader and builds the pipeline, buffers
// and bind group of a pass. Shader failures are returned as
// *ShaderCompileError.
func (c *Context) CompileDrawPass(desc DrawPassDescriptor) (p *DrawPass, err error) {
	if desc.Uniforms == nil {
		return nil, fmt.Errorf("renderer: pass %s has no uniform function", desc.Label)
	}
	if err := shaders.Validate(desc.Label, desc.Shader); err != nil {
		if !errors.Is(err, shaders.ErrUnsupported) {
			return nil, &ShaderCompileError{Label: desc.Label, Stage: StageValidate, Err: err}
		}
		Logger().Warn("offline shader check skipped", "pass", desc.Label, "err", err)
	}

	p = &DrawPass{
		label:     desc.Label,
		ctx:       c,
		count:     desc.Count,
		instances: max(desc.Instances, 1),
		pointSize: desc.PointSize,
		uniforms:  desc.Uniforms,
	}
	defer func() {
		if err != nil {
			p.Release()
			p = nil
		}
	}()

	module, err := c.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Label + ".wgsl",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.Shader},
	})
	if err != nil {
		return p, &ShaderCompileError{Label: desc.Label, Stage: StageModule, Err: err}
	}
	defer module.Release()

	layouts := make([]wgpu.VertexBufferLayout, 0, len(desc.Attributes))
	for _, a := range desc.Attributes {
		buf, err := c.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    desc.Label + " " + a.Name,
			Contents: a.Data,
			Usage:    wgpu.BufferUsage_Vertex,
		})
		if err != nil {
			return p, fmt.Errorf("renderer: pass %s attribute %s: %w", desc.Label, a.Name, err)
		}
		p.vertexBufs = append(p.vertexBufs, buf)
		layouts = append(layouts, wgpu.VertexBufferLayout{
			ArrayStride: a.Stride,
			StepMode:    a.StepMode,
			Attributes: []wgpu.VertexAttribute{
				{
					Format:         a.Format,
					Offset:         0,
					ShaderLocation: a.Location,
				},
			},
		})
	}

	if len(desc.Elements) > 0 {
		p.indexBuf, err = c.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    desc.Label + " Index Buffer",
			Contents: wgpu.ToBytes(desc.Elements),
			Usage:    wgpu.BufferUsage_Index,
		})
		if err != nil {
			return p, fmt.Errorf("renderer: pass %s elements: %w", desc.Label, err)
		}
	}

	p.uniformBuf, err = c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label + " Uniform Buffer",
		Size:  shaders.TransformSize,
		Usage: wgpu.BufferUsage_Uniform | wgpu.BufferUsage_CopyDst,
	})
	if err != nil {
		return p, fmt.Errorf("renderer: pass %s uniforms: %w", desc.Label, err)
	}

	depthCompare := wgpu.CompareFunction_Less
	if !desc.DepthWrite {
		depthCompare = wgpu.CompareFunction_LessEqual
	}
	p.pipeline, err = c.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: desc.Label + " Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: shaders.VertexEntry,
			Buffers:    layouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: shaders.FragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    c.config.Format,
					Blend:     desc.Blend,
					WriteMask: wgpu.ColorWriteMask_All,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  desc.Topology,
			FrontFace: wgpu.FrontFace_CCW,
			CullMode:  wgpu.CullMode_None,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormat_Depth32Float,
			DepthWriteEnabled: desc.DepthWrite,
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunction_Always,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunction_Always,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		return p, &ShaderCompileError{Label: desc.Label, Stage: StagePipeline, Err: err}
	}

	bindGroupLayout := p.pipeline.GetBindGroupLayout(0)
	defer bindGroupLayout.Release()

	entries := []wgpu.BindGroupEntry{
		{
			Binding: 0,
			Buffer:  p.uniformBuf,
			Size:    wgpu.WholeSize,
		},
	}
	if desc.Texture != nil {
		entries = append(entries,
			wgpu.BindGroupEntry{
				Binding:     1,
				TextureView: desc.Texture.view,
				Size:        wgpu.WholeSize,
			},
			wgpu.BindGroupEntry{
				Binding: 2,
				Sampler: desc.Texture.sampler,
				Size:    wgpu.WholeSize,
			},
		)
	}
	p.bindGroup, err = c.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   desc.Label + " Bind Group",
		Layout:  bindGroupLayout,
		Entries: entries,
	})
	if err != nil {
		return p, fmt.Errorf("renderer: pass %s bind group: %w", desc.Label, err)
	}

	c.passes = append(c.passes, p)
	Logger().Debug("draw pass compiled",
		"pass", desc.Label,
		"attributes", len(desc.Attributes),
		"count", p.count,
		"instances", p.instances)
	return p, nil
}

// Submit evaluates the pass uniforms for props and records the draw into
// the current frame. The viewport in props is replaced by the renderer's.
func (p *DrawPass) Submit(props scene.Props) error {
	props.Viewport = p.ctx.Viewport()
	transform := shaders.NewTransform(p.uniforms(props), props.Viewport, p.pointSize)

	renderPass, err := p.ctx.beginPass()
	if err != nil {
		return err
	}
	defer renderPass.Release()

	p.ctx.queue.WriteBuffer(p.uniformBuf, 0, transform.Bytes())

	renderPass.SetPipeline(p.pipeline)
	renderPass.SetBindGroup(0, p.bindGroup, nil)
	for slot, buf := range p.vertexBufs {
		renderPass.SetVertexBuffer(uint32(slot), buf, 0, wgpu.WholeSize)
	}
	if p.indexBuf != nil {
		renderPass.SetIndexBuffer(p.indexBuf, wgpu.IndexFormat_Uint16, 0, wgpu.WholeSize)
		renderPass.DrawIndexed(p.count, p.instances, 0, 0, 0)
	} else {
		renderPass.Draw(p.count, p.instances, 0, 0)
	}
	renderPass.End()
	return nil
}

// Release frees the GPU objects of the pass.
func (p *DrawPass) Release() {
	if p == nil {
		return
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.uniformBuf != nil {
		p.uniformBuf.Release()
		p.uniformBuf = nil
	}
	if p.indexBuf != nil {
		p.indexBuf.Release()
		p.indexBuf = nil
	}
	for _, buf := range p.vertexBufs {
		buf.Release()
	}
	p.vertexBufs = nil
}
