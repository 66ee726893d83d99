// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gpu

// WGSL shader sources. Vertices and indices are pulled from storage
// buffers; the draw parameters arrive as push constants. naga translates
// var<push_constant> blocks to SPIR-V push constants.

const shaderWGSLCommon = `
struct FrameData {
    multiplier: vec2<f32>,
    offset: vec2<f32>,
}

struct Vertex {
    coords: vec2<f32>,
    uvs: vec2<f32>,
    color: vec4<f32>,
    point_size: f32,
    single_texture_layer: i32,
    pad0: f32,
    pad1: f32,
}

struct PushConstants {
    transformation_offset: u32,
    index_offset: u32,
    index_count: u32,
    vertex_offset: u32,
    texture_layer_weight_offset: u32,
    texture_layer_weight_count: u32,
}

@group(0) @binding(0) var<uniform> frame_data: FrameData;
@group(1) @binding(0) var<storage, read> transformations: array<mat4x4<f32>>;
@group(2) @binding(0) var<storage, read> indices: array<u32>;
@group(3) @binding(0) var<storage, read> vertices: array<Vertex>;
@group(4) @binding(0) var texture_sampler: sampler;
@group(4) @binding(1) var<uniform> sampler_border_color: vec4<f32>;
@group(5) @binding(0) var texture_array: texture_2d_array<f32>;
@group(6) @binding(0) var<storage, read> texture_layer_weights: array<f32>;

var<push_constant> pc: PushConstants;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec4<f32>,
    @location(2) @interpolate(flat) single_texture_layer: i32,
    @location(3) @interpolate(flat) vertex_index: u32,
}
`

const shaderVertexDefault = shaderWGSLCommon + `
@vertex
fn vs_main(@builtin(vertex_index) in_index: u32) -> VertexOutput {
    // With vkCmdDrawIndexed the builtin already carries the fetched index
    // value; the index storage buffer stays available for shaders that
    // need random access.
    let vertex = vertices[pc.vertex_offset + in_index];
    let transform = transformations[pc.transformation_offset];

    let world = transform * vec4<f32>(vertex.coords, 0.0, 1.0);
    let clip = world.xy * frame_data.multiplier + frame_data.offset;

    var out: VertexOutput;
    out.position = vec4<f32>(clip, 0.0, 1.0);
    out.uv = vertex.uvs;
    out.color = vertex.color;
    out.single_texture_layer = vertex.single_texture_layer;
    out.vertex_index = in_index;
    return out;
}
`

const shaderFragSingleTextured = shaderWGSLCommon + `
@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let texel = textureSample(texture_array, texture_sampler, in.uv, in.single_texture_layer);
    return texel * in.color;
}
`

const shaderFragSingleTexturedBorder = shaderWGSLCommon + `
@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    if (in.uv.x < 0.0 || in.uv.x > 1.0 || in.uv.y < 0.0 || in.uv.y > 1.0) {
        return sampler_border_color * in.color;
    }
    let texel = textureSample(texture_array, texture_sampler, in.uv, in.single_texture_layer);
    return texel * in.color;
}
`

// accumulate_layers sums every texture layer scaled by the per-vertex
// layer weights recorded in the mesh buffer.
const shaderMultitexturedBody = `
fn accumulate_layers(uv: vec2<f32>, weight_base: u32) -> vec4<f32> {
    var color = vec4<f32>(0.0);
    for (var layer: u32 = 0u; layer < pc.texture_layer_weight_count; layer = layer + 1u) {
        let weight = texture_layer_weights[weight_base + layer];
        color = color + textureSample(texture_array, texture_sampler, uv, i32(layer)) * weight;
    }
    return color;
}
`

const shaderFragMultitexturedTriangle = shaderWGSLCommon + shaderMultitexturedBody + `
@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let base = pc.texture_layer_weight_offset + in.vertex_index * pc.texture_layer_weight_count;
    return accumulate_layers(in.uv, base) * in.color;
}
`

const shaderFragMultitexturedLine = shaderFragMultitexturedTriangle

const shaderFragMultitexturedPoint = shaderFragMultitexturedTriangle

const shaderFragMultitexturedTriangleBorder = shaderWGSLCommon + shaderMultitexturedBody + `
@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    if (in.uv.x < 0.0 || in.uv.x > 1.0 || in.uv.y < 0.0 || in.uv.y > 1.0) {
        return sampler_border_color * in.color;
    }
    let base = pc.texture_layer_weight_offset + in.vertex_index * pc.texture_layer_weight_count;
    return accumulate_layers(in.uv, base) * in.color;
}
`

const shaderFragMultitexturedLineBorder = shaderFragMultitexturedTriangleBorder

const shaderFragMultitexturedPointBorder = shaderFragMultitexturedTriangleBorder

// Blur shaders render a fullscreen triangle sampling the source render
// target. blur_info: sigma, per-step factor of the exponentiation (the
// initial exponentiation squared), initial coefficient, initial natural
// exponentiation. pixel_size is one texel in [0,1] canvas space.

const shaderBlurCommon = `
struct BlurPushConstants {
    blur_info: vec4<f32>,
    pixel_size: vec2<f32>,
}

@group(0) @binding(0) var blur_sampler: sampler;
@group(1) @binding(0) var blur_source: texture_2d_array<f32>;

var<push_constant> bpc: BlurPushConstants;

struct BlurVertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}
`

const shaderVertexFullscreen = shaderBlurCommon + `
@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> BlurVertexOutput {
    // Single oversized triangle covering the viewport.
    let uv = vec2<f32>(f32((index << 1u) & 2u), f32(index & 2u));
    var out: BlurVertexOutput;
    out.position = vec4<f32>(uv * 2.0 - 1.0, 0.0, 1.0);
    out.uv = uv;
    return out;
}
`

const shaderBlurBody = `
fn blur(uv: vec2<f32>, direction: vec2<f32>, gaussian: bool) -> vec4<f32> {
    let sigma = bpc.blur_info.x;
    let radius = i32(ceil(sigma * 3.0));

    var coefficient = bpc.blur_info.z;
    if (!gaussian) {
        coefficient = 1.0;
    }
    var exponentiation = bpc.blur_info.w;

    var sum = textureSample(blur_source, blur_sampler, uv, 0) * coefficient;
    var total = coefficient;

    for (var i: i32 = 1; i <= radius; i = i + 1) {
        if (gaussian) {
            coefficient = coefficient * exponentiation;
            exponentiation = exponentiation * bpc.blur_info.y;
        } else {
            coefficient = 1.0;
        }
        let offset = direction * f32(i);
        sum = sum + textureSample(blur_source, blur_sampler, uv + offset, 0) * coefficient;
        sum = sum + textureSample(blur_source, blur_sampler, uv - offset, 0) * coefficient;
        total = total + coefficient * 2.0;
    }
    return sum / total;
}
`

const shaderFragBoxBlurHorizontal = shaderBlurCommon + shaderBlurBody + `
@fragment
fn fs_main(in: BlurVertexOutput) -> @location(0) vec4<f32> {
    return blur(in.uv, vec2<f32>(bpc.pixel_size.x, 0.0), false);
}
`

const shaderFragBoxBlurVertical = shaderBlurCommon + shaderBlurBody + `
@fragment
fn fs_main(in: BlurVertexOutput) -> @location(0) vec4<f32> {
    return blur(in.uv, vec2<f32>(0.0, bpc.pixel_size.y), false);
}
`

const shaderFragGaussianBlurHorizontal = shaderBlurCommon + shaderBlurBody + `
@fragment
fn fs_main(in: BlurVertexOutput) -> @location(0) vec4<f32> {
    return blur(in.uv, vec2<f32>(bpc.pixel_size.x, 0.0), true);
}
`

const shaderFragGaussianBlurVertical = shaderBlurCommon + shaderBlurBody + `
@fragment
fn fs_main(in: BlurVertexOutput) -> @location(0) vec4<f32> {
    return blur(in.uv, vec2<f32>(0.0, bpc.pixel_size.y), true);
}
`
