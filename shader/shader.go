package shader

// ────────────────────────────────── Desktop GL ──────────────────────────────────

// The full-surface triangle is fed through attribute location 0, named pos so
// user vertex shaders written against the same layout keep working.
const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 pos;
out vec2 frag_uv;
void main() {
    frag_uv = pos * 0.5 + 0.5;
    gl_Position = vec4(pos, 0.0, 1.0);
}
`

const blitFragmentShaderSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// Used when the head file is blank, so a bare body can write outColor.
const framedHeadSourceGL = `#version 410 core
uniform float iTime;
uniform vec3  iResolution;
uniform vec4  iMouse;
out vec4 outColor;
`

// ─────────────────────────────────── Shadertoy ──────────────────────────────────

const shadertoyPreamble = `#version 300 es
precision highp float;
precision highp int;

#define HW_PERFORMANCE 1

uniform vec3  iResolution;
uniform float iTime;
uniform vec4  iMouse;

out vec4 fragColor;

#define FAST_TANH_BODY(x) ((x) * (27.0 + (x)*(x)) / (27.0 + 9.0*(x)*(x)))
float fast_tanh(float x) { return FAST_TANH_BODY(x); }
vec2  fast_tanh(vec2  x) { return FAST_TANH_BODY(x); }
vec3  fast_tanh(vec3  x) { return FAST_TANH_BODY(x); }
vec4  fast_tanh(vec4  x) { return FAST_TANH_BODY(x); }
#define tanh fast_tanh
`

const shadertoyMain = `
void main(void)
{
    mainImage(fragColor, gl_FragCoord.xy);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// DefaultVertexShader is the built-in full-surface vertex stage.
func DefaultVertexShader() string {
	return vertexShaderSourceGL
}

// BlitVertexShader returns the vertex stage used to copy the offscreen
// target to the window.
func BlitVertexShader() string {
	return vertexShaderSourceGL
}

// BlitFragmentShader samples u_texture across the surface.
func BlitFragmentShader() string {
	return blitFragmentShaderSourceGL
}

// DefaultHead is the framed composition head used when none is supplied.
func DefaultHead() string {
	return framedHeadSourceGL
}

// ShadertoySource wraps a mainImage body with the Shadertoy preamble and
// entry point.
func ShadertoySource(body string) string {
	return shadertoyPreamble + body + shadertoyMain
}
