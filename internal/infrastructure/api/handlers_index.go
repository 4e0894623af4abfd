package api

import (
	"net/http"
)

func (h *TryOnHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1.0"/>
<title>Virtual Try-On with Nanobanana</title>
<script src="https://cdn.tailwindcss.com"></script>
<style>
body { font-family: Inter, system-ui, -apple-system, Segoe UI, Roboto, sans-serif; }
.loader{border:8px solid #f3f3f3;border-top:8px solid #6366f1;border-radius:50%;width:56px;height:56px;animation:spin 1.2s linear infinite}
@keyframes spin{0%{transform:rotate(0)}100%{transform:rotate(360deg)}}
.result-preview{width:100%;height:420px;background:#f3f4f6;border:2px dashed #d1d5db;display:flex;align-items:center;justify-content:center;overflow:hidden;border-radius:8px}
.result-preview img{max-width:100%;max-height:100%;object-fit:contain}
.image-upload-area {
    border: 2px dashed #d1d5db;
    background: #f9fafb;
    border-radius: 8px;
    transition: all 0.3s ease;
    cursor: pointer;
    min-height: 220px;
}
.image-upload-area:hover { border-color: #6366f1; background: #f3f4f6; }
.image-upload-area.drag-over { border-color: #6366f1; background: #eef2ff; }
</style>
</head>
<body class="bg-gray-50 text-gray-800">
<div class="container mx-auto p-4 md:p-8 max-w-5xl">

<header class="text-center mb-8">
<h1 class="text-3xl md:text-4xl font-bold text-gray-900">Virtual Try-On with Nanobanana</h1>
<p class="text-gray-600 mt-2">Upload a photo of yourself and a clothing item to see how it looks on you.</p>
</header>

<main class="bg-white p-6 md:p-8 rounded-2xl shadow-lg">
<form id="tryon-form" enctype="multipart/form-data">

<div class="mb-6">
<label for="api-key" class="block text-lg font-semibold mb-2 text-gray-700">Gemini API Key</label>
<input type="password" id="api-key" name="api_key" autocomplete="off"
class="w-full px-4 py-3 border border-gray-300 rounded-lg focus:ring-2 focus:ring-indigo-500 focus:border-indigo-500"
placeholder="Enter your Gemini API key">
<p class="text-sm text-gray-500 mt-1">The key is sent with this request only and is never stored.</p>
</div>

<div class="grid md:grid-cols-2 gap-6 mb-6">
<div>
<label class="block text-lg font-semibold mb-2 text-gray-700">Your Photo</label>
<div class="image-upload-area p-4 text-center flex items-center justify-center" id="person-area">
<input type="file" id="person-input" name="person_image" accept="image/*" capture="user" class="hidden">
<p class="text-gray-500" id="person-placeholder">Drop a photo here, click to choose a file, or use your camera</p>
<img id="person-preview" class="hidden max-w-full max-h-64 mx-auto rounded-lg">
</div>
</div>
<div>
<label class="block text-lg font-semibold mb-2 text-gray-700">Clothing Item</label>
<div class="image-upload-area p-4 text-center flex items-center justify-center" id="garment-area">
<input type="file" id="garment-input" name="garment_image" accept="image/*" class="hidden">
<p class="text-gray-500" id="garment-placeholder">Drop a clothing photo here or click to choose a file</p>
<img id="garment-preview" class="hidden max-w-full max-h-64 mx-auto rounded-lg">
</div>
</div>
</div>

<div class="flex flex-wrap gap-4 items-end mb-6">
<div>
<label for="output-format" class="block text-sm font-medium text-gray-700">Output format</label>
<select id="output-format" name="output_format" class="mt-1 px-3 py-2 border border-gray-300 rounded-lg">
<option value="png" selected>PNG</option>
<option value="jpeg">JPEG</option>
</select>
</div>
<div id="quality-wrap" class="hidden">
<label for="compression-quality" class="block text-sm font-medium text-gray-700">JPEG quality</label>
<input type="number" id="compression-quality" name="compression_quality" min="1" max="100" value="75"
class="mt-1 w-24 px-3 py-2 border border-gray-300 rounded-lg">
</div>
</div>

<div class="text-center mb-4">
<button type="submit" id="submit-btn"
class="bg-gradient-to-r from-indigo-500 to-purple-600 text-white font-bold py-4 px-12 rounded-full hover:shadow-xl transform hover:-translate-y-0.5 transition-all text-lg">
Try On
</button>
</div>
</form>

<div class="mt-6">
<label for="status" class="block text-sm font-medium text-gray-700">Status</label>
<textarea id="status" rows="2" readonly class="w-full mt-1 px-4 py-2 border border-gray-200 rounded-lg bg-gray-50 text-gray-700"></textarea>
</div>

<div id="result-section" class="mt-6">
<h2 class="text-2xl font-bold text-center mb-4 text-gray-800">Result</h2>
<div id="result-display" class="result-preview"><span class="text-gray-400">No result yet</span></div>
<div class="text-center mt-4">
<a id="download-link" href="#" class="hidden px-6 py-2 rounded-lg bg-indigo-600 text-white hover:bg-indigo-700">Download Result</a>
</div>
</div>

<section class="mt-10 bg-gray-50 rounded-lg p-6">
<h3 class="text-lg font-semibold mb-2">Tips for best results</h3>
<ul class="list-disc ml-6 text-gray-600 space-y-1">
<li>Use a clear, well-lit photo of yourself facing the camera.</li>
<li>Choose clothing images with a plain background.</li>
<li>Make sure the clothing item is clearly visible.</li>
<li>Full-body or upper-body photos work best.</li>
</ul>
</section>
</main>
</div>

<script>
const form = document.getElementById('tryon-form');
const statusBox = document.getElementById('status');
const resultDisplay = document.getElementById('result-display');
const downloadLink = document.getElementById('download-link');
const submitBtn = document.getElementById('submit-btn');
const outputFormat = document.getElementById('output-format');
const qualityWrap = document.getElementById('quality-wrap');

outputFormat.addEventListener('change', () => {
    qualityWrap.classList.toggle('hidden', outputFormat.value !== 'jpeg');
});

function setupUpload(areaId, inputId, previewId, placeholderId) {
    const area = document.getElementById(areaId);
    const input = document.getElementById(inputId);
    const preview = document.getElementById(previewId);
    const placeholder = document.getElementById(placeholderId);

    const show = (file) => {
        const reader = new FileReader();
        reader.onload = (e) => {
            preview.src = e.target.result;
            preview.classList.remove('hidden');
            placeholder.classList.add('hidden');
        };
        reader.readAsDataURL(file);
    };

    area.addEventListener('click', () => input.click());
    area.addEventListener('dragover', (e) => { e.preventDefault(); area.classList.add('drag-over'); });
    area.addEventListener('dragleave', (e) => { e.preventDefault(); area.classList.remove('drag-over'); });
    area.addEventListener('drop', (e) => {
        e.preventDefault();
        area.classList.remove('drag-over');
        if (e.dataTransfer.files.length > 0) {
            input.files = e.dataTransfer.files;
            show(e.dataTransfer.files[0]);
        }
    });
    input.addEventListener('change', (e) => {
        if (e.target.files.length > 0) show(e.target.files[0]);
    });
}

setupUpload('person-area', 'person-input', 'person-preview', 'person-placeholder');
setupUpload('garment-area', 'garment-input', 'garment-preview', 'garment-placeholder');

form.addEventListener('submit', async (event) => {
    event.preventDefault();

    submitBtn.disabled = true;
    submitBtn.textContent = 'Generating...';
    statusBox.value = '';
    downloadLink.classList.add('hidden');
    resultDisplay.innerHTML = '<div class="loader"></div>';

    try {
        // 検証はサーバー側で行う（未入力でもそのまま送る）
        const resp = await fetch('/tryon', { method: 'POST', body: new FormData(form) });
        let data = {};
        try { data = await resp.json(); } catch {}

        statusBox.value = data.status || ('HTTP ' + resp.status);

        if (data.success && data.image) {
            const img = document.createElement('img');
            img.src = 'data:' + data.image.type + ';base64,' + data.image.data;
            img.alt = 'Try-on result';
            resultDisplay.innerHTML = '';
            resultDisplay.appendChild(img);
            if (data.download_url) {
                downloadLink.href = data.download_url;
                downloadLink.classList.remove('hidden');
            }
        } else {
            resultDisplay.innerHTML = '<span class="text-gray-400">No result</span>';
        }
    } catch (err) {
        console.error(err);
        statusBox.value = 'Error: ' + err.message;
        resultDisplay.innerHTML = '<span class="text-red-500">Request failed</span>';
    } finally {
        submitBtn.disabled = false;
        submitBtn.textContent = 'Try On';
    }
});
</script>
</body>
</html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.Write([]byte(html))
}
