package scene

// VertexShader passes the position through and forwards it as a color.
const VertexShader = `#version 330 core
layout (location = 0) in vec3 pos;

out VS_OUTPUT {
	vec3 colPos;
} OUT;

void main() {
	gl_Position = vec4(pos.x, pos.y, pos.z, 1.0);
	OUT.colPos = pos;
}
`

// FragmentShader colors each fragment by its interpolated position.
const FragmentShader = `#version 330 core
out vec4 final_color;

in VS_OUTPUT {
	vec3 colPos;
} IN;

void main() {
	final_color = vec4(IN.colPos, 1.0);
}
`
