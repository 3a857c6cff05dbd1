package project

// Params is the flat set of generation parameters handed to the LTX-2
// backend. It composes in three layers: hardcoded defaults, project-wide
// overrides, per-shot overrides. Later layers shadow earlier ones
// key-by-key, never wholesale, so it is kept as an open map rather than
// a struct with a hundred optional fields.
type Params map[string]any

// Clone returns a shallow copy. Values are scalars or small lists that
// callers treat as immutable.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a new Params with overrides layered on top of p.
func (p Params) Merge(overrides Params) Params {
	out := p.Clone()
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// DefaultParams returns the hardcoded generation defaults. The key set
// and values mirror the settings file consumed by the generation queue.
func DefaultParams() Params {
	return Params{
		"image_mode":                  0,
		"prompt":                      "",
		"alt_prompt":                  "",
		"negative_prompt":             "",
		"resolution":                  "960x544",
		"video_length":                470,
		"duration_seconds":            0,
		"batch_size":                  1,
		"seed":                        -1,
		"force_fps":                   "24",
		"num_inference_steps":         8,
		"guidance_scale":              4,
		"guidance2_scale":             5,
		"guidance3_scale":             5,
		"switch_threshold":            0,
		"switch_threshold2":           0,
		"guidance_phases":             2,
		"model_switch_phase":          1,
		"alt_guidance_scale":          1,
		"audio_guidance_scale":        4,
		"audio_scale":                 2,
		"flow_shift":                  5,
		"sample_solver":               "",
		"embedded_guidance_scale":     6,
		"repeat_generation":           1,
		"multi_prompts_gen_type":      0,
		"multi_images_gen_type":       0,
		"skip_steps_cache_type":       "",
		"skip_steps_multiplier":       1.75,
		"skip_steps_start_step_perc":  0,
		"loras_multipliers":           "1.0",
		"image_prompt_type":           "",
		"image_start":                 nil,
		"image_end":                   nil,
		"model_mode":                  nil,
		"video_source":                nil,
		"keep_frames_video_source":    "",
		"input_video_strength":        1,
		"video_guide_outpainting":     "",
		"video_prompt_type":           "",
		"image_refs":                  nil,
		"frames_positions":            nil,
		"video_guide":                 nil,
		"image_guide":                 nil,
		"keep_frames_video_guide":     "",
		"denoising_strength":          1.0,
		"masking_strength":            1.0,
		"video_mask":                  nil,
		"image_mask":                  nil,
		"control_net_weight":          1,
		"control_net_weight2":         1,
		"control_net_weight_alt":      1,
		"motion_amplitude":            1.0,
		"mask_expand":                 0,
		"audio_guide":                 nil,
		"audio_guide2":                nil,
		"custom_guide":                nil,
		"audio_source":                nil,
		"audio_prompt_type":           "A",
		"speakers_locations":          "0:45 55:100",
		"sliding_window_size":         501,
		"sliding_window_overlap":      17,
		"sliding_window_color_correction_strength": 0,
		"sliding_window_overlap_noise":             0,
		"sliding_window_discard_last_frames":       0,
		"image_refs_relative_size":                 50,
		"remove_background_images_ref":             1,
		"temporal_upsampling":                      "",
		"spatial_upsampling":                       "",
		"film_grain_intensity":                     0,
		"film_grain_saturation":                    0.5,
		"MMAudio_setting":                          0,
		"MMAudio_prompt":                           "",
		"MMAudio_neg_prompt":                       "",
		"RIFLEx_setting":                           0,
		"NAG_scale":                                1,
		"NAG_tau":                                  3.5,
		"NAG_alpha":                                0.5,
		"slg_switch":                               0,
		"slg_layers":                               []int{29},
		"slg_start_perc":                           10,
		"slg_end_perc":                             90,
		"apg_switch":                               0,
		"cfg_star_switch":                          0,
		"cfg_zero_step":                            -1,
		"prompt_enhancer":                          "",
		"min_frames_if_references":                 1,
		"override_profile":                         2,
		"override_attention":                       "sage2",
		"pace":                                     0.5,
		"exaggeration":                             0.5,
		"temperature":                              0.8,
		"top_k":                                    50,
		"output_filename":                          "",
		"mode":                                     "",
		"activated_loras":                          []string{},
		"model_type":                               "ltx2_distilled",
		"settings_version":                         2.45,
		"base_model_type":                          "ltx2_19B",
	}
}

// EffectiveParams resolves the three-layer composition for a shot:
// defaults, then the project's overrides, then the shot's own.
func (p *Project) EffectiveParams(sh *Shot) Params {
	out := DefaultParams().Merge(p.DefaultParams)
	if sh != nil && sh.Params != nil {
		out = out.Merge(sh.Params)
	}
	return out
}
