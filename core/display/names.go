package display

// chinese maps English EXIF tag names, and the vendor keys found in camera
// debug comments, to their zh-CN display names.
var chinese = Table{
	"ImageWidth":                 "图像宽度",
	"ImageLength":                "图像长度",
	"GPSInfo":                    "GPS信息",
	"ResolutionUnit":             "分辨率单位",
	"ExifOffset":                 "EXIF偏移量",
	"Make":                       "制造商",
	"Model":                      "型号",
	"Orientation":                "方向",
	"DateTime":                   "日期时间",
	"YCbCrPositioning":           "YCbCr定位",
	"XResolution":                "X方向分辨率",
	"YResolution":                "Y方向分辨率",
	"ExifVersion":                "EXIF版本",
	"SceneType":                  "场景类型",
	"ApertureValue":              "光圈值",
	"ColorSpace":                 "颜色空间",
	"ExposureBiasValue":          "曝光偏差",
	"MaxApertureValue":           "最大光圈值",
	"ExifImageHeight":            "EXIF图像高度",
	"BrightnessValue":            "亮度值",
	"DateTimeOriginal":           "原始日期时间",
	"FlashPixVersion":            "FlashPix版本",
	"WhiteBalance":               "白平衡",
	"ExifInteroperabilityOffset": "EXIF互操作性偏移量",
	"Flash":                      "闪光灯",
	"ExifImageWidth":             "EXIF图像宽度",
	"ComponentsConfiguration":    "组件配置",
	"MeteringMode":               "测光模式",
	"OffsetTime":                 "时区偏移",
	"SubsecTimeOriginal":         "原始亚秒时间",
	"SubsecTime":                 "亚秒时间",
	"SubsecTimeDigitized":        "数字化亚秒时间",
	"OffsetTimeOriginal":         "原始时区偏移",
	"DateTimeDigitized":          "数字化日期时间",
	"OffsetTimeDigitized":        "数字化时区偏移",
	"ShutterSpeedValue":          "快门速度值",
	"SensingMethod":              "感光方法",
	"ExposureTime":               "曝光时间",
	"FNumber":                    "F值",
	"ExposureProgram":            "曝光程序",
	"ISOSpeedRatings":            "ISO速度等级",
	"ISOSpeed":                   "ISO速度",
	"ExposureMode":               "曝光模式",
	"LightSource":                "光源",
	"FocalLengthIn35mmFilm":      "35mm胶片焦距",
	"SceneCaptureType":           "场景捕获类型",
	"FocalLength":                "焦距",
	"Software":                   "软件",
	"SensitivityType":            "敏感度类型",
	"RecommendedExposureIndex":   "推荐曝光指数",
	"DigitalZoomRatio":           "数字缩放比",
	"UserComment":                "用户备注",
	"MakerNote":                  "制造商备注",
	"JpegIFOffset":               "JPEG IF偏移量",
	"JpegIFByteCount":            "JPEG IF字节数",
	"filter":                     "滤镜",
	"filterIntensity":            "滤镜强度",
	"filterMask":                 "滤镜掩码",
	"captureOrientation":         "拍摄方向",
	"highlight":                  "高光增强",
	"algolist":                   "算法列表",
	"multi-frame":                "多帧合成",
	"brp_mask":                   "BRP掩码",
	"brp_del_th":                 "BRP阈值",
	"brp_del_sen":                "BRP灵敏度",
	"motionLevel":                "运动等级",
	"delta":                      "Delta变化",
	"module":                     "模块",
	"hw-remosaic":                "重采样硬件",
	"touch":                      "触摸对焦点",
	"sceneMode":                  "场景模式",
	"cct_value":                  "色温值",
	"AI_Scene":                   "AI场景",
	"aec_lux":                    "曝光光照值",
	"aec_lux_index":              "曝光指数",
	"HdrStatus":                  "HDR状态",
	"albedo":                     "反照率",
	"confidence":                 "置信度",
	"weatherinfo":                "天气信息",
	"temperature":                "温度",
	"fileterIntensity":           "滤镜强度",
	"ImageDescription":           "图片描述",
	"BitsPerSample":              "每样本位数",
	"Compression":                "压缩方式",
	"PhotometricInterpretation":  "光度解释",
	"StripOffsets":               "条带偏移量",
	"SamplesPerPixel":            "每像素样本数",
	"RowsPerStrip":               "每条带行数",
	"StripByteCounts":            "条带字节数",
	"Artist":                     "艺术家",
	"HostComputer":               "主机计算机",
	"Copyright":                  "版权",
	"ColorMap":                   "颜色映射表",
	"ISOspeed ratings":           "ISO速度等级",
	"CompressedBitsPerPixel":     "每像素压缩位数",
	"SubjectDistance":            "主体距离",
	"RelatedSoundFile":           "相关声音文件",
	"InteroperabilityOffset":     "EXIF互操作性偏移量",
	"FocalPlaneXResolution":      "焦平面X分辨率",
	"FocalPlaneYResolution":      "焦平面Y分辨率",
	"FocalPlaneResolutionUnit":   "焦平面分辨率单位",
	"FileSource":                 "文件源",
	"CFAPattern":                 "CFA模式",
	"CustomRendered":             "自定义渲染",
	"GainControl":                "增益控制",
	"Contrast":                   "对比度",
	"Saturation":                 "饱和度",
	"Sharpness":                  "锐度",
	"DeviceSettingDescription":   "设备设置描述",
	"SubjectDistanceRange":       "主体距离范围",
	"LensMake":                   "镜头制造商",
	"LensModel":                  "镜头型号",
	"LensSpecification":          "镜头规格",
}
